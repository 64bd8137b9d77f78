package release

import "time"

// Clock supplies wall-clock reads and sleeps for the wait loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
