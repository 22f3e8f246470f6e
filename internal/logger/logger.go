// Package logger owns the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/company-registry/internal/pkg/context"
)

const service = "company-registry"

var Logger zerolog.Logger

// Options selects level and output format. Zero values mean info and console.
type Options struct {
	Level  string // zerolog level name
	Format string // "json" or "console"
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT.
func OptionsFromEnv() Options {
	return Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}
}

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures Logger from the environment, writing to w.
func InitWithWriter(w io.Writer) {
	Configure(w, OptionsFromEnv())
}

// Configure replaces Logger and zerolog's global logger. Unknown levels fall back to info.
func Configure(w io.Writer, o Options) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(o.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if !strings.EqualFold(o.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
	zlog.Logger = Logger
}

// WithCtx returns a child of Logger tagged with the request id and caller, when present.
func WithCtx(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()
	if rid, ok := appCtx.RequestID(ctx); ok {
		lc = lc.Str("request_id", rid)
	}
	if s, ok := appCtx.SubjectFrom(ctx); ok {
		lc = lc.Str("user_id", s.UserID)
	}
	l := lc.Logger()
	return &l
}
