package request

import "github.com/jonboulle/clockwork"

// clock supplies the current-year upper bound for year validation.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for year validation. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// CurrentYear returns the latest year the archive can serve, evaluated from
// the package clock at call time.
func CurrentYear() int {
	return clock.Now().Year()
}
