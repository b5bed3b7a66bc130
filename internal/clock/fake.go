package clock

import "time"

// FakeClock pins Now for tests that assert period windows and voucher
// expiry. All times are normalized to UTC, matching the aggregation code.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, for ordering claims within a test.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant, for crossing month or
// quarter boundaries mid-test.
func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}
