package skill

import (
	"maps"

	"github.com/udisondev/statforge/internal/game/stat"
)

// SkillEffectContext describes one request to apply an effect.
// ApplySkillEffect works on a deep copy, so changing the context after
// submission does not affect an applied effect.
type SkillEffectContext struct {
	Effect *SkillEffect
	Source *SkillsSystem // defaults to the applying system
	Target *SkillsSystem // defaults to the applying system

	// Magnitude scales additive modifiers; 0 means 1.
	Magnitude float64
	Tags      map[string]string
}

// Clone returns a deep copy of c. Definitions and systems are shared
// references and are not copied.
func (c *SkillEffectContext) Clone() *SkillEffectContext {
	if c == nil {
		return nil
	}
	out := *c
	out.Tags = maps.Clone(c.Tags)
	return &out
}

func (c *SkillEffectContext) modContext() stat.ModContext {
	return stat.ModContext{
		Magnitude: c.Magnitude,
		Source:    c.Effect.Name,
	}
}
