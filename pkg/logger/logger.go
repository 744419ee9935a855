// Package logger configures the module's structured logging: a
// level-filtering slog handler that hides third-party noise below DEBUG
// and always lets this module's own packages through at INFO.
//
// Grounded on github.com/kadirpekel/hector's pkg/logger.Init, reduced to
// the filtering behavior (the teacher's colored/simple/verbose text
// handlers are terminal-presentation concerns this module doesn't need).
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

const modulePackagePrefix = "github.com/kadirpekel/agentcore"

// ParseLevel converts a string log level to slog.Level. Unknown values
// fall back to Info, matching the teacher's permissive parsing.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, nil
	}
}

// filteringHandler wraps a slog.Handler and, below DEBUG, drops records
// whose call site isn't in this module.
type filteringHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel && h.handler.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.minLevel <= slog.LevelDebug || isModuleCaller(record.PC) {
		return h.handler.Handle(ctx, record)
	}
	return nil
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filteringHandler{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

func isModuleCaller(pc uintptr) bool {
	if pc == 0 {
		return false
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return false
	}
	file, _ := fn.FileLine(pc)
	return strings.Contains(fn.Name(), modulePackagePrefix) || strings.Contains(file, "/agentcore/")
}

// Init installs a filtering JSON handler at the given level as the
// process-wide slog default. output defaults to os.Stderr when nil.
func Init(level slog.Level, output *os.File) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}
	base := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	l := slog.New(&filteringHandler{handler: base, minLevel: level})
	slog.SetDefault(l)
	return l
}
