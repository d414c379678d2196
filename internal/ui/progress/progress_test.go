package progress

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

func TestCounter(t *testing.T) {
	var out syncBuffer
	c := NewCounter(context.Background(), &out, 3, time.Millisecond)
	c.Inc(false)
	c.Inc(true)
	assert.Equal(t, "2/3 analysed (1 failed)", c.String())
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "2/3 analysed (1 failed)")
	}, time.Second, time.Millisecond)
	c.Done()
	c.Done() // Done is idempotent.
	assert.True(t, strings.HasSuffix(out.String(), "\033[?25h\r\033[K"))
}
