package skill

import (
	"time"

	"github.com/udisondev/statforge/internal/game/timeunit"
)

// PeriodicMode executes a base-value effect every Period until the
// inherited duration expires or the effect is removed.
//
// The period timer is re-armed after each execution, except when the
// duration timer completes this frame before the next tick is due. A tick
// due at the same moment as expiry still runs: the period timer has the
// higher priority.
type PeriodicMode struct {
	TimedMode

	Period         time.Duration
	ExecuteOnApply bool

	tick timeunit.TimerHandle
}

func (m *PeriodicMode) Name() string        { return "periodic" }
func (m *PeriodicMode) Target() ValueTarget { return TargetBaseValue }

func (m *PeriodicMode) Clone() Mode {
	return &PeriodicMode{
		TimedMode:      TimedMode{Duration: m.Duration},
		Period:         m.Period,
		ExecuteOnApply: m.ExecuteOnApply,
	}
}

func (m *PeriodicMode) OnApplied(ae *ActiveSkillEffect) {
	m.TimedMode.OnApplied(ae)
	if m.ExecuteOnApply {
		// OnExecuted arms the first tick.
		ae.System().ExecuteSkillEffect(ae.Handle())
		return
	}
	m.armTick(ae)
}

func (m *PeriodicMode) OnExecuted(ae *ActiveSkillEffect) {
	tu := ae.System().TimeUnit()
	if tu == nil {
		return
	}
	if !m.expiry.IsZero() && tu.WillCompleteThisFrame(m.expiry) {
		if rem, ok := tu.Remaining(m.expiry); ok && rem < m.Period {
			tu.RemoveTimer(&m.tick)
			return
		}
	}
	m.armTick(ae)
}

func (m *PeriodicMode) OnRemoved(ae *ActiveSkillEffect) {
	m.TimedMode.OnRemoved(ae)
	if tu := ae.System().TimeUnit(); tu != nil {
		tu.RemoveTimer(&m.tick)
	}
}

func (m *PeriodicMode) armTick(ae *ActiveSkillEffect) {
	tu := ae.System().TimeUnit()
	if tu == nil || m.Period <= 0 {
		return
	}
	sys, h := ae.System(), ae.Handle()
	tu.CreateTimer(&m.tick, m.Period, func() {
		sys.ExecuteSkillEffect(h)
	}, timeunit.PriorityHigh)
}
