// Package dilog builds the single scoped logger ds-identify threads
// through every component, the way cmd/sand/main.go's initSlog builds
// one *slog.Logger for the whole process and installs it as default.
package dilog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a scoped sink for severity-tagged records. Zero value is not
// usable; construct with New.
type Logger struct {
	level int
	sl    *slog.Logger
	// closer flushes buffered writes on Close; nil when writing directly
	// to stderr.
	closer io.Closer
}

// New builds a Logger writing to sinkPath (or stderr, for the literal
// "stderr") with threshold from debugLevel. debugLevel of -1 means "log
// everything". Records at warn/error are duplicated to stderr.
func New(sinkPath string, debugLevel int) *Logger {
	var sink io.Writer
	var closer io.Closer

	if sinkPath == "" || sinkPath == "stderr" {
		sink = os.Stderr
	} else {
		lj := &lumberjack.Logger{
			Filename:   sinkPath,
			MaxSize:    50, // megabytes; effectively "don't rotate" for a boot log
			MaxBackups: 3,
			Compress:   false,
		}
		if err := ensureWritable(lj); err != nil {
			fmt.Fprintf(os.Stderr, "ds-identify: cannot open log sink %q, falling back to stderr: %v\n", sinkPath, err)
			sink = os.Stderr
		} else {
			sink = lj
			closer = lj
		}
	}

	handler := newFanoutHandler(sink, os.Stderr, slogLevel(debugLevel))
	return &Logger{
		level:  debugLevel,
		sl:     slog.New(handler),
		closer: closer,
	}
}

// ensureWritable performs a zero-byte write so a permission or
// missing-parent-directory failure surfaces immediately instead of on
// the first real log call.
func ensureWritable(lj *lumberjack.Logger) error {
	_, err := lj.Write(nil)
	return err
}

// slogLevel converts the configured DEBUG_LEVEL into the minimum
// severity the handler admits, on the same slog.Level(-level) scale
// Debug uses to emit a call-site record. A call at numeric level N is
// recorded at slog.Level(-N), so the threshold for "admit levels up to
// N" is slog.Level(-N) too.
func slogLevel(debugLevel int) slog.Level {
	if debugLevel < 0 {
		return slog.LevelDebug - 100 // lower than any named level: log everything
	}
	return slog.Level(-debugLevel)
}

// Debug records a message at the given numeric level. It is only
// emitted if the logger's threshold admits it; level maps onto
// slog.Level(-level), so higher numeric levels are more verbose and
// require a higher configured DEBUG_LEVEL to show.
func (l *Logger) Debug(level int, msg string, args ...any) {
	l.sl.Log(context.Background(), slog.Level(-level), fmt.Sprintf("[%d] %s", level, msg), args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.sl.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.sl.Error(msg, args...)
}

// Close flushes any buffered writes. Safe to call on a stderr-backed
// Logger (no-op).
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// fanoutHandler duplicates warn/error records to an additional writer
// (always stderr) on top of the primary sink, per spec.md 4.2.
type fanoutHandler struct {
	primary slog.Handler
	extra   slog.Handler
	min     slog.Level
}

func newFanoutHandler(primary, extraDest io.Writer, min slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: min, ReplaceAttr: dropTime}
	return &fanoutHandler{
		primary: slog.NewTextHandler(primary, opts),
		extra:   slog.NewTextHandler(extraDest, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}),
		min:     min,
	}
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.primary.Handle(ctx, record); err != nil {
		return err
	}
	if record.Level >= slog.LevelWarn {
		return h.extra.Handle(ctx, record)
	}
	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fanoutHandler{primary: h.primary.WithAttrs(attrs), extra: h.extra.WithAttrs(attrs), min: h.min}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return &fanoutHandler{primary: h.primary.WithGroup(name), extra: h.extra.WithGroup(name), min: h.min}
}

// Severity returns the upper-case name of level as a short tag.
func Severity(level slog.Level) string {
	return strings.ToUpper(level.String())
}
