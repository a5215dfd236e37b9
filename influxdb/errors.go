package influxdb

import (
	"fmt"
)

// Error types for client operations. Every error returned by an API
// operation is one of these four, so callers can classify failures
// without string matching.
type (
	// EncodeError indicates a request body or query string could not be
	// serialized. The request was never sent.
	EncodeError struct {
		Err error
	}

	// TransportError indicates the request could not be performed or the
	// response body could not be read.
	TransportError struct {
		Err error
	}

	// DecodeError indicates a success response carried a body that could
	// not be parsed into the expected shape.
	DecodeError struct {
		Err error
	}
)

func (e *EncodeError) Error() string {
	return fmt.Sprintf("influxdb: failed to serialize request: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("influxdb: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("influxdb: failed to parse response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// APIError represents an InfluxDB API error response. Body holds the
// response text exactly as the server sent it.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("influxdb API error: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
