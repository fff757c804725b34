// Package logging builds slog loggers and carries them through contexts.
//
// Entrypoints create one logger and install it with slog.SetDefault. HTTP
// middleware stores a request-scoped logger with WithLogger, and code further
// down recovers it with FromContext:
//
//	log := logging.FromContext(ctx)
//	log.Warn("feed fetch failed", slog.String("url", feedURL))
package logging
