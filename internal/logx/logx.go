package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// Config selects the log level and sinks.
type Config struct {
	Level   string `json:"level"`
	Console bool   `json:"console"`
	File    string `json:"file"`
}

// Stdout returns the writer console logging goes to.
func Stdout() io.Writer { return os.Stdout }

// New builds a zerolog logger for cfg and returns it wrapped as an
// *slog.Logger. The returned close func releases the log file, if any.
// With neither sink enabled the console is used.
func New(cfg Config) (*slog.Logger, func() error, error) {
	var (
		writers []io.Writer
		file    *os.File
	)
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: Stdout(), TimeFormat: consoleTimeFormat})
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cinder: create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cinder: open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: Stdout(), TimeFormat: consoleTimeFormat})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(ParseLevel(cfg.Level, zerolog.InfoLevel))

	closeFn := func() error { return nil }
	if file != nil {
		closeFn = file.Close
	}
	return slog.New(NewHandler(zl)), closeFn, nil
}

// ParseLevel maps a level name to a zerolog level, falling back to def.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// Handler is an slog.Handler that writes records through a zerolog logger.
type Handler struct {
	zl     zerolog.Logger
	attrs  []slog.Attr
	prefix string // dotted group path for attrs added after WithGroup
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps zl. Level filtering is zerolog's.
func NewHandler(zl zerolog.Logger) *Handler {
	return &Handler{zl: zl}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return toZerolog(level) >= h.zl.GetLevel()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	e := h.zl.WithLevel(toZerolog(r.Level))
	if e == nil {
		return nil
	}
	if !r.Time.IsZero() {
		e.Time(zerolog.TimestampFieldName, r.Time)
	}
	for _, a := range h.attrs {
		addAttr(e, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(e, h.prefix, a)
		return true
	})
	e.Msg(r.Message)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	cp := *h
	cp.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	cp.attrs = append(cp.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		cp.attrs = append(cp.attrs, a)
	}
	return &cp
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix = h.prefix + name + "."
	return &cp
}

func addAttr(e *zerolog.Event, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindString:
		e.Str(key, a.Value.String())
	case slog.KindInt64:
		e.Int64(key, a.Value.Int64())
	case slog.KindUint64:
		e.Uint64(key, a.Value.Uint64())
	case slog.KindFloat64:
		e.Float64(key, a.Value.Float64())
	case slog.KindBool:
		e.Bool(key, a.Value.Bool())
	case slog.KindDuration:
		e.Str(key, a.Value.Duration().String())
	case slog.KindTime:
		e.Str(key, a.Value.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(e, groupPrefix, ga)
		}
	default:
		if err, ok := a.Value.Any().(error); ok {
			e.AnErr(key, err)
			return
		}
		e.Interface(key, a.Value.Any())
	}
}

func toZerolog(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
