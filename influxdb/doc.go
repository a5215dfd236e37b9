// Package influxdb provides a typed client for the InfluxDB v2 HTTP API.
//
// The client covers the label and task resources along with the server
// probe endpoints. Every operation maps to exactly one HTTP request and
// authenticates with a token header, so the package is safe to use from
// callers that need predictable request counts.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: The main API client holding connection settings
//   - Labels/Tasks: Typed operations and request/response models
//   - Operations: Higher-level search and delete orchestration
//   - API: Interface definitions for testability and modularity
//   - Errors: Structured error types for better error handling
//
// # Usage
//
// Create a new client with your InfluxDB URL and API token:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := influxdb.NewClient(
//		"https://influxdb.example.com:8086",
//		"your-api-token",
//		logger,
//		influxdb.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all tasks in an organization
//	ctx := context.Background()
//	tasks, err := client.ListTasks(ctx, influxdb.ListTasksRequest{OrgID: "0000000000000001"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Every error returned by an operation is one of four types:
//
//   - EncodeError: A request body or query could not be serialized
//   - TransportError: The request could not be sent or the response not read
//   - APIError: The server answered with an unexpected status code
//   - DecodeError: A success response body could not be parsed
//
// API errors include helper methods for classification:
//
//	if apiErr, ok := err.(*influxdb.APIError); ok {
//		if apiErr.IsUnauthorized() {
//			// Handle auth failure
//		}
//	}
//
// The client never retries, caches, or mutates its configuration after
// construction. Timeouts and retry policy belong to the caller.
package influxdb
