// Package power simulates the node's deep sleep on hosts without one.
package power

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// Timer keeps the process alive through a simulated deep sleep: the next
// cycle starts when EnterLowPowerState returns.
type Timer struct {
	ctx   context.Context
	mu    sync.Mutex
	wake  time.Duration
	after func(time.Duration) <-chan time.Time
}

func NewTimer(ctx context.Context) *Timer {
	return &Timer{ctx: ctx, after: time.After}
}

func (t *Timer) ArmTimerWake(d time.Duration) {
	t.mu.Lock()
	t.wake = d
	t.mu.Unlock()
	log.Printf("power: wake timer armed for %s", d)
}

// EnterLowPowerState blocks until the armed timer fires or ctx is cancelled.
// Without an armed timer it blocks until ctx is cancelled, as the hardware would.
func (t *Timer) EnterLowPowerState() {
	t.mu.Lock()
	d := t.wake
	t.wake = 0
	t.mu.Unlock()

	var fire <-chan time.Time
	if d > 0 {
		fire = t.after(d)
	}
	select {
	case <-fire:
	case <-t.ctx.Done():
	}
}

// Exit ends the process on EnterLowPowerState and leaves waking up to an
// external scheduler (cron, systemd timer). It never returns.
type Exit struct {
	mu   sync.Mutex
	wake time.Duration
	exit func(code int)
}

func NewExit() *Exit { return &Exit{exit: os.Exit} }

func (e *Exit) ArmTimerWake(d time.Duration) {
	e.mu.Lock()
	e.wake = d
	e.mu.Unlock()
}

func (e *Exit) EnterLowPowerState() {
	e.mu.Lock()
	d := e.wake
	e.mu.Unlock()
	log.Printf("power: powering off, next boot in %s", d)
	e.exit(0)
	select {}
}
