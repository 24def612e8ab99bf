package service

import "time"

// Clock supplies the millisecond timestamps performers are paced on.
type Clock interface {
	NowMillis() int64
}

// MonotonicClock counts milliseconds since its creation on the monotonic clock.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// NowMillis returns the milliseconds elapsed since the clock was created.
func (c *MonotonicClock) NowMillis() int64 {
	return time.Since(c.start).Milliseconds()
}
