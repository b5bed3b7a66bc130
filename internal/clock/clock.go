package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Report periods and growth comparisons
// depend on "now", so services never read the wall clock directly.
type Clock interface {
	Now() time.Time
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
