// Package spinning shows a spinning symbol while an AI is thinking, and handles interrupts so the
// terminal is left in a sane state.
package spinning

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
	ThemeAscii = []rune(`|/-\`)
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")

	// Theme used by New. It can be set to any non-empty list of runes.
	Theme = ThemeClock

	// Interval between updates of the symbol, used by New.
	Interval = 250 * time.Millisecond
)

// Spinning displays a symbol that changes periodically, until Done is called.
type Spinning struct {
	wg     sync.WaitGroup
	cancel func()
}

// SafeInterrupt captures SIGINT (Ctrl+C) and SIGTERM and calls onInterrupt (if not nil).
// If the program hasn't exited after gracePeriod, it resets the terminal and exits.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Interrupted (signal %q), shutting down within %s", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset(os.Stdout)
		klog.Fatalf("Grace period of %s expired, exiting.", gracePeriod)
	}()
}

// Reset the terminal: make the cursor visible and restore the default colors.
func Reset(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25h\033[39;49;0m\n")
}

// New starts spinning on os.Stdout, using Theme and Interval.
func New(ctx context.Context) *Spinning {
	return NewWithWriter(ctx, os.Stdout, Theme, Interval)
}

// NewWithWriter starts spinning on w, in a separate goroutine. It stops when Done is called or ctx is done.
//
// Each symbol is written after 2 backspaces, since some themes use double width symbols.
func NewWithWriter(ctx context.Context, w io.Writer, theme []rune, interval time.Duration) *Spinning {
	s := &Spinning{}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		_, _ = fmt.Fprint(w, "\033[?25l  ") // Hide cursor.
		for idx := 0; ; idx = (idx + 1) % len(theme) {
			_, _ = fmt.Fprintf(w, "\b\b%c", theme[idx])
			select {
			case <-ctx.Done():
				_, _ = fmt.Fprint(w, "\b\b  \b\b\033[?25h") // Erase symbol and restore cursor.
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// Done stops the spinning and waits for the symbol to be erased. It can be called more than once.
func (s *Spinning) Done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}
