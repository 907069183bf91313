// Package skill applies authored skill effects to stat systems.
//
// An effect definition lists (stat, modifier) pairs and a prototype Mode.
// Applying it creates an ActiveSkillEffect tracked by handle. Current-value
// effects register their modifiers on the target stats right away and stay
// live until removed. Base-value effects collect their modifiers into a Spec
// and change base values only when executed. The Mode decides when to
// execute and when to remove.
package skill

import (
	"errors"
	"fmt"

	"github.com/udisondev/statforge/internal/game/stat"
)

// EffectModifier is one (target stat, modifier) pair of an effect.
type EffectModifier struct {
	Stat *stat.Stat
	Mod  stat.Modifier
}

// EffectHooks are optional callbacks on an effect definition.
// They run synchronously inside the skills system calls.
type EffectHooks struct {
	Applied     func(ae *ActiveSkillEffect)
	PreExecute  func(ae *ActiveSkillEffect)
	PostExecute func(ae *ActiveSkillEffect)
	Removed     func(ae *ActiveSkillEffect)
}

// SkillEffect is an immutable effect definition shared by all applications.
// Do not modify after it has been applied.
type SkillEffect struct {
	Name      string
	Modifiers []EffectModifier
	Mode      Mode // prototype, cloned for every application

	// Effects with the same non-empty StackType do not coexist on one
	// target: a higher StackLevel replaces, an equal one refreshes, a lower
	// one is rejected.
	StackType  string
	StackLevel int32

	Hooks EffectHooks
}

var errNoMode = errors.New("effect has no mode")

func (e *SkillEffect) validate() error {
	if e.Mode == nil {
		return errNoMode
	}
	for i, m := range e.Modifiers {
		if m.Stat == nil {
			return fmt.Errorf("modifier %d: no target stat", i)
		}
		if m.Mod == nil {
			return fmt.Errorf("modifier %d (%s): no modifier", i, m.Stat.Name())
		}
	}
	return nil
}
