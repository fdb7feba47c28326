package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fires due timers in order", func(t *testing.T) {
		c := NewFake(start)
		var fired []string
		c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
		c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
		c.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

		c.Advance(3 * time.Second)

		assert.Equal(t, []string{"a", "b"}, fired)
		assert.Equal(t, start.Add(3*time.Second), c.Now())
		assert.Equal(t, 1, c.Pending())
	})

	t.Run("stopped timers never fire", func(t *testing.T) {
		c := NewFake(start)
		called := false
		tm := c.AfterFunc(time.Second, func() { called = true })

		assert.True(t, tm.Stop())
		assert.False(t, tm.Stop())
		c.Advance(time.Minute)
		assert.False(t, called)
	})

	t.Run("rescheduling callbacks fire within the window", func(t *testing.T) {
		c := NewFake(start)
		count := 0
		var tick func()
		tick = func() {
			count++
			c.AfterFunc(time.Second, tick)
		}
		c.AfterFunc(time.Second, tick)

		c.Advance(10 * time.Second)
		assert.Equal(t, 10, count)
	})
}
