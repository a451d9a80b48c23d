package contracts

import "time"

// Clock supplies the current time. Injected wherever a wall-clock read would
// otherwise hide inside a pure computation, so tests can freeze time.
type Clock func() time.Time

// SystemClock is the production clock.
var SystemClock Clock = time.Now

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
