package booking

import (
	"sync"
	"time"

	"github.com/kirinyoku/cinemago/internal/clock"
)

// Countdown decrements a remaining-seconds counter once per interval and
// calls onExpire once when it reaches zero. It never goes negative.
type Countdown struct {
	clk      clock.Clock
	interval time.Duration
	onExpire func()

	mu        sync.Mutex
	remaining int
	timer     clock.Timer
	stopped   bool
	expired   bool
}

func NewCountdown(clk clock.Clock, start int, interval time.Duration, onExpire func()) *Countdown {
	if start < 0 {
		start = 0
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		clk:       clk,
		interval:  interval,
		onExpire:  onExpire,
		remaining: start,
	}
}

// Start schedules the first tick. A countdown starting at zero expires at once.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.stopped || c.timer != nil {
		c.mu.Unlock()
		return
	}
	if c.remaining == 0 {
		c.mu.Unlock()
		c.fireExpire()
		return
	}
	c.timer = c.clk.AfterFunc(c.interval, c.tick)
	c.mu.Unlock()
}

// Tick decrements once and returns the remaining seconds.
func (c *Countdown) Tick() int {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	left := c.remaining
	c.mu.Unlock()

	if left == 0 {
		c.fireExpire()
	}
	return left
}

func (c *Countdown) tick() {
	if c.Tick() == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.timer = c.clk.AfterFunc(c.interval, c.tick)
	}
}

func (c *Countdown) fireExpire() {
	c.mu.Lock()
	if c.expired || c.stopped {
		c.mu.Unlock()
		return
	}
	c.expired = true
	fn := c.onExpire
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining == 0
}

// Stop cancels pending ticks. The expiry callback will not run afterwards.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
}
