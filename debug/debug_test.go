package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReadMem(t *testing.T) {
	s, err := ReadMem()
	require.NoError(t, err)
	assert.Greater(t, s.Goroutines, 0)
	assert.Greater(t, s.HeapSys, uint64(0))
	assert.Greater(t, s.RSS, uint64(0))
}

func TestLoggersStopWithContext(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewJSONHandler(&out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartMemLogger(ctx, 5*time.Millisecond, logger)
	StartGoroutineLogger(ctx, 5*time.Millisecond, logger)

	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, `"memstats"`) && strings.Contains(s, `"goroutine-stacks"`)
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
}
