package skill

import (
	"time"

	"github.com/udisondev/statforge/internal/game/timeunit"
)

// TimedMode keeps current-value modifiers live for Duration, then removes
// the effect. A zero Duration keeps the effect until it is removed
// explicitly.
type TimedMode struct {
	Duration time.Duration

	expiry timeunit.TimerHandle
}

func (m *TimedMode) Name() string        { return "timed" }
func (m *TimedMode) Target() ValueTarget { return TargetCurrentValue }
func (m *TimedMode) Clone() Mode         { return &TimedMode{Duration: m.Duration} }

func (m *TimedMode) OnApplied(ae *ActiveSkillEffect) {
	m.armExpiry(ae)
}

// Refresh restarts the duration.
func (m *TimedMode) Refresh(ae *ActiveSkillEffect) {
	m.armExpiry(ae)
}

func (m *TimedMode) OnExecuted(*ActiveSkillEffect)   {}
func (m *TimedMode) OnPreRemoved(*ActiveSkillEffect) {}

func (m *TimedMode) OnRemoved(ae *ActiveSkillEffect) {
	if tu := ae.System().TimeUnit(); tu != nil {
		tu.RemoveTimer(&m.expiry)
	}
}

// Expiry returns the duration timer handle (zero when not armed).
func (m *TimedMode) Expiry() timeunit.TimerHandle { return m.expiry }

func (m *TimedMode) armExpiry(ae *ActiveSkillEffect) {
	tu := ae.System().TimeUnit()
	if tu == nil || m.Duration <= 0 {
		return
	}
	sys, h := ae.System(), ae.Handle()
	tu.CreateTimer(&m.expiry, m.Duration, func() {
		sys.RemoveActiveSkillEffectByHandle(h)
	}, timeunit.PriorityDefault)
}
