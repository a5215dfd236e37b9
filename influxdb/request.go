package influxdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// statusAnySuccess accepts the whole 2xx class. Used by the operations
// where the API does not commit to a single success code.
const statusAnySuccess = 0

func statusMatches(got, want int) bool {
	if want == statusAnySuccess {
		return got >= 200 && got < 300
	}
	return got == want
}

// doRequest performs a single authenticated HTTP request and checks the
// response status against want. On a status mismatch the raw response
// text is returned inside an APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body any, want int) ([]byte, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &EncodeError{Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", u).
		Msg("Making InfluxDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if !statusMatches(resp.StatusCode, want) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// doJSON performs a request via doRequest and decodes the success
// response body into T.
func doJSON[T any](ctx context.Context, c *Client, method, endpoint string, query url.Values, body any, want int) (T, error) {
	var out T

	data, err := c.doRequest(ctx, method, endpoint, query, body, want)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Err: err}
	}

	return out, nil
}
