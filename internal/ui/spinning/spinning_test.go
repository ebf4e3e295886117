package spinning

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for concurrent use.
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

func TestSpinning(t *testing.T) {
	var out syncBuffer
	s := NewWithWriter(context.Background(), &out, ThemeAscii, time.Millisecond)
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), `\`) },
		time.Second, time.Millisecond)
	s.Done()
	s.Done()
	got := out.String()
	assert.True(t, strings.HasPrefix(got, "\033[?25l  \b\b|"))
	assert.True(t, strings.HasSuffix(got, "\033[?25h"))
}

func TestSpinningContext(t *testing.T) {
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	s := NewWithWriter(ctx, &out, ThemeMoon, time.Hour)
	cancel()
	s.Done()
	assert.Contains(t, out.String(), "🌑")
}

func TestReset(t *testing.T) {
	var out bytes.Buffer
	Reset(&out)
	assert.Equal(t, "\033[?25h\033[39;49;0m\n", out.String())
}
