// Package observability groups the logging, metrics and tracing helpers
// shared by the API server, the CLI and the headline pipeline.
package observability
