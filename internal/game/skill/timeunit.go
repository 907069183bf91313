package skill

import (
	"time"

	"github.com/udisondev/statforge/internal/game/timeunit"
)

// TimeUnit is the timer service timed and periodic modes schedule through.
// *timeunit.Clock implements it.
type TimeUnit interface {
	CreateTimer(ref *timeunit.TimerHandle, d time.Duration, onComplete func(), priority int)
	RemoveTimer(ref *timeunit.TimerHandle)
	WillCompleteThisFrame(h timeunit.TimerHandle) bool
	Remaining(h timeunit.TimerHandle) (time.Duration, bool)
}

var _ TimeUnit = (*timeunit.Clock)(nil)
