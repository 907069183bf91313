package skill

// ValueTarget selects which value of a stat an effect's modifiers change.
type ValueTarget int8

const (
	// TargetBaseValue effects fold their modifiers into the base value each
	// time they execute.
	TargetBaseValue ValueTarget = iota
	// TargetCurrentValue effects hold live current-value modifiers from
	// application until removal. They never execute.
	TargetCurrentValue
)

func (t ValueTarget) String() string {
	if t == TargetCurrentValue {
		return "current"
	}
	return "base"
}

// Mode is the temporal policy of one effect application.
// A prototype lives on the SkillEffect; every application gets a Clone.
//
// Hooks run synchronously and may call back into the skills system
// (ExecuteSkillEffect, RemoveActiveSkillEffectByHandle) on the same stack.
type Mode interface {
	Name() string
	Target() ValueTarget
	Clone() Mode

	OnApplied(ae *ActiveSkillEffect)
	OnExecuted(ae *ActiveSkillEffect)
	OnPreRemoved(ae *ActiveSkillEffect)
	OnRemoved(ae *ActiveSkillEffect)
}

// Refresher is implemented by modes whose lifetime can be restarted when an
// effect of the same stack level is applied again.
type Refresher interface {
	Refresh(ae *ActiveSkillEffect)
}
