package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Skotchmaster/pizza_shop/internal/store"
)

type ctxKey struct{}

// New builds a JSON logger for the given level writing to out.
func New(level string, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

// Output resolves the log target ("console", "file" or "both") into a writer.
// File output appends each line to the store's log collection, which the log
// archiver job later compresses.
func Output(target string, s *store.Store, collection string) io.Writer {
	switch strings.ToLower(target) {
	case "file":
		return &StoreWriter{Store: s, Collection: collection}
	case "both":
		return io.MultiWriter(os.Stdout, &StoreWriter{Store: s, Collection: collection})
	default:
		return os.Stdout
	}
}

// StoreWriter appends every log line to a per-day document. The day key is
// recomputed per write and the append recreates the document when absent, so
// logging survives the archiver deleting a swept day.
type StoreWriter struct {
	Store      *store.Store
	Collection string

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (w *StoreWriter) Write(p []byte) (int, error) {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	key := now.UTC().Format("2006-01-02")
	if err := w.Store.Append(w.Collection, key, bytes.TrimSuffix(p, []byte("\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
