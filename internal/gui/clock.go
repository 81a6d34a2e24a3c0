package gui

import (
	"context"
	"time"
)

// Clock broadcasts the current time once a second to any page displaying a
// wall-clock widget (most home-screen style pages bind to it).
type Clock struct {
	subscribers []chan time.Time
}

// NewClock returns a clock with no subscribers yet.
func NewClock() *Clock {
	return &Clock{}
}

// Subscribe returns a channel receiving a tick every second. The channel is
// buffered by 1 so a slow page never blocks the ticker.
func (c *Clock) Subscribe() <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Run ticks once a second until ctx is cancelled, fanning out to every
// subscriber registered before Run was called.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			for _, ch := range c.subscribers {
				select {
				case ch <- t:
				default:
				}
			}
		}
	}
}
