package skill

import (
	"github.com/oklog/ulid/v2"

	"github.com/udisondev/statforge/internal/game/handle"
	"github.com/udisondev/statforge/internal/game/stat"
)

// EffectState is the lifecycle position of an ActiveSkillEffect.
type EffectState int8

const (
	StateApplied EffectState = iota
	StateRemoved
)

func (s EffectState) String() string {
	if s == StateRemoved {
		return "removed"
	}
	return "applied"
}

type appliedModifier struct {
	stat *stat.ActiveStat
	h    handle.Handle
}

// ActiveSkillEffect is one live application of a SkillEffect.
// It owns its mode instance, context copy and Spec, and remembers every
// modifier handle it registered so disposal leaves nothing behind.
type ActiveSkillEffect struct {
	handle handle.Handle
	id     ulid.ULID
	system *SkillsSystem

	effect *SkillEffect
	mode   Mode
	ctx    *SkillEffectContext
	spec   *Spec

	applied    []appliedModifier
	executions int
	state      EffectState
}

func (ae *ActiveSkillEffect) Handle() handle.Handle        { return ae.handle }
func (ae *ActiveSkillEffect) ID() ulid.ULID                { return ae.id }
func (ae *ActiveSkillEffect) System() *SkillsSystem        { return ae.system }
func (ae *ActiveSkillEffect) Effect() *SkillEffect         { return ae.effect }
func (ae *ActiveSkillEffect) Mode() Mode                   { return ae.mode }
func (ae *ActiveSkillEffect) Context() *SkillEffectContext { return ae.ctx }
func (ae *ActiveSkillEffect) Spec() *Spec                  { return ae.spec }
func (ae *ActiveSkillEffect) Executions() int              { return ae.executions }
func (ae *ActiveSkillEffect) State() EffectState           { return ae.state }

// ModifierHandles returns the current-value modifier handles registered on
// target stats.
func (ae *ActiveSkillEffect) ModifierHandles() []handle.Handle {
	out := make([]handle.Handle, len(ae.applied))
	for i, a := range ae.applied {
		out[i] = a.h
	}
	return out
}

// dispose unregisters every tracked modifier, detaches the mode and
// releases the Spec. Safe to call more than once.
func (ae *ActiveSkillEffect) dispose() {
	if ae.state == StateRemoved {
		return
	}
	ae.state = StateRemoved

	for _, a := range ae.applied {
		a.stat.RemoveModifier(a.h)
	}
	ae.applied = nil

	ae.mode.OnRemoved(ae)
	ae.spec.Release()
}
