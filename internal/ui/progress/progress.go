// Package progress reports the progress of a batch of analyses on the terminal, and handles
// interruptions.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

var (
	ThemeAscii = []rune("|/-\\")
	ThemeHex   = []rune("⬡⬢")

	// Theme defaults to ThemeAscii, but it can be set to anything else.
	Theme = ThemeAscii
)

// SafeInterrupt captures SigInt (Ctrl+C) and SigTerm and calls the provided onInterrupt.
// If the program hasn't exited after gracePeriod, it resets the terminal and exits.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n")
}

// Counter displays a spinning symbol with the count of finished items, refreshed
// periodically on a separate goroutine until Done is called.
type Counter struct {
	w     io.Writer
	total int

	mu       sync.Mutex
	finished int
	failed   int

	wg     sync.WaitGroup
	cancel func()
}

// NewCounter starts displaying the progress of total items to w.
func NewCounter(ctx context.Context, w io.Writer, total int, refresh time.Duration) *Counter {
	c := &Counter{w: w, total: total}
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
		_, _ = fmt.Fprint(c.w, "\033[?25l")       // Hide cursor.
		defer fmt.Fprint(c.w, "\033[?25h\r\033[K") // Restore cursor, clear line.
		for tick := 0; ; tick++ {
			_, _ = fmt.Fprintf(c.w, "\r%c %s", Theme[tick%len(Theme)], c.String())
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return c
}

// Inc counts one more finished item.
func (c *Counter) Inc(failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished++
	if failed {
		c.failed++
	}
}

// String implements fmt.Stringer.
func (c *Counter) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed > 0 {
		return fmt.Sprintf("%d/%d analysed (%d failed)", c.finished, c.total, c.failed)
	}
	return fmt.Sprintf("%d/%d analysed", c.finished, c.total)
}

// Done stops the display, and waits for it to clean up.
func (c *Counter) Done() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.wg.Wait()
}
