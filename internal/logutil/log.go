package logutil

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte
)

var (
	loggerKey = key(1)
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetOrDefault(ctx context.Context) zerolog.Logger {
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// WithRequest derives a request-scoped logger carrying the method and
// path, and returns the request with that logger in its context.
func WithRequest(r *http.Request) (zerolog.Logger, *http.Request) {
	logger := GetOrDefault(r.Context()).With().
		Str("http.method", r.Method).
		Str("http.path", r.URL.Path).
		Logger()
	return logger, r.WithContext(WithLogger(r.Context(), logger))
}
