// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twist/twistconfig/pkg/library"
)

// logCapture records log entries as decoded JSON objects.
type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *logCapture) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *logCapture) entries(t *testing.T, msg string) []map[string]any {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []map[string]any
	dec := json.NewDecoder(bytes.NewReader(l.buf.Bytes()))
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		if entry[slog.MessageKey] == msg {
			out = append(out, entry)
		}
	}
	return out
}

// newTestConfig creates a configuration rooted at baseDir with NODE_PATH
// ignored and debug logs captured.
func newTestConfig(t *testing.T, contextName, baseDir string, options map[string]any) (*Configuration, *logCapture, error) {
	t.Helper()
	logs := &logCapture{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	resolver, err := library.NewResolver(baseDir, library.WithNodePath())
	require.NoError(t, err)

	cfg, err := Create(contextName, options,
		WithBaseDir(baseDir),
		WithResolver(resolver),
		WithLogger(logger),
	)
	return cfg, logs, err
}

func mustConfig(t *testing.T, contextName, baseDir string, options map[string]any) (*Configuration, *logCapture) {
	t.Helper()
	cfg, logs, err := newTestConfig(t, contextName, baseDir, options)
	require.NoError(t, err)
	return cfg, logs
}

// noRoot suppresses the initial root load.
func noRoot() map[string]any {
	return map[string]any{RootOption: nil}
}

// inflightRecorder is a slog handler that notes, for every log record carrying
// a library attribute, that library next to cfg.CurrentLibrary() at the time
// the record was emitted.
type inflightRecorder struct {
	cfg  *Configuration
	seen [][2]string
}

func (h *inflightRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *inflightRecorder) Handle(_ context.Context, r slog.Record) error {
	if h.cfg == nil {
		return nil
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "library" {
			return true
		}
		h.seen = append(h.seen, [2]string{a.Value.String(), h.cfg.CurrentLibrary().String()})
		return false
	})
	return nil
}

func (h *inflightRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *inflightRecorder) WithGroup(string) slog.Handler      { return h }
