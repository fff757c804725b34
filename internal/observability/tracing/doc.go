// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the global otel tracer so that any provider
// installed by the binary (or by tests with tracetest) receives them.
// HTTP requests are traced by Middleware; the headline pipeline and the
// dashboard orchestration open internal spans with StartSpan.
//
// Example usage:
//
//	ctx, span := tracing.StartSpan(ctx, "headline.Collect",
//	    attribute.String("feed.url", feedURL))
//	defer span.End()
package tracing
