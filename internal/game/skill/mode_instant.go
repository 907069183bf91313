package skill

// InstantMode executes once and removes itself, all inside ApplySkillEffect.
type InstantMode struct{}

func (*InstantMode) Name() string        { return "instant" }
func (*InstantMode) Target() ValueTarget { return TargetBaseValue }
func (*InstantMode) Clone() Mode         { return &InstantMode{} }

func (*InstantMode) OnApplied(ae *ActiveSkillEffect) {
	sys := ae.System()
	sys.ExecuteSkillEffect(ae.Handle())
	sys.RemoveActiveSkillEffectByHandle(ae.Handle())
}

func (*InstantMode) OnExecuted(*ActiveSkillEffect)   {}
func (*InstantMode) OnPreRemoved(*ActiveSkillEffect) {}
func (*InstantMode) OnRemoved(*ActiveSkillEffect)    {}
