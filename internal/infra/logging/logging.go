package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smallbiz-billing/internal/config"
)

// New builds the process-wide logger. Console output is used in dev or when
// the config asks for it; production defaults to JSON on stdout.
func New(cfg config.LogConfig, dev bool) *zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out zerolog.Logger
	if dev || strings.EqualFold(cfg.Format, "console") {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		out = zerolog.New(os.Stdout)
	}
	base := out.With().Timestamp().Logger()

	// Sampling stays off in dev so nothing is dropped while debugging.
	if cfg.Sampling && !dev {
		base = base.Sample(&zerolog.BasicSampler{N: 100})
	}
	return &base
}

type ctxKey int

const (
	ctxTraceID ctxKey = iota
	ctxUserID
)

// With returns a child logger carrying the request-scoped trace and user IDs
// found in ctx.
func With(ctx context.Context, base *zerolog.Logger) *zerolog.Logger {
	lc := base.With()
	if id, ok := ctx.Value(ctxTraceID).(string); ok && id != "" {
		lc = lc.Str("trace_id", id)
	}
	if id, ok := ctx.Value(ctxUserID).(string); ok && id != "" {
		lc = lc.Str("user_id", id)
	}
	l := lc.Logger()
	return &l
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxTraceID, id)
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxUserID, id)
}

// UserID returns the authenticated account ID stored in ctx, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxUserID).(string)
	return id
}
