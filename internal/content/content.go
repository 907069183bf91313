// Package content loads stat, sheet and effect definitions from YAML.
package content

import (
	"maps"
	"slices"

	"github.com/udisondev/statforge/internal/game/skill"
	"github.com/udisondev/statforge/internal/game/stat"
)

// Error codes attached to content errors (see oops.AsOops).
const (
	CodeMalformed       = "malformed_content"
	CodeDuplicateStat   = "duplicate_stat"
	CodeUnknownStat     = "unknown_stat"
	CodeStatCycle       = "stat_cycle"
	CodeDuplicateSheet  = "duplicate_sheet"
	CodeUnknownSheet    = "unknown_sheet"
	CodeInvalidRange    = "invalid_range"
	CodeDuplicateEffect = "duplicate_effect"
	CodeUnknownMode     = "unknown_mode"
	CodeInvalidMode     = "invalid_mode"
	CodeInvalidModifier = "invalid_modifier"
)

// Content is a resolved set of definitions. Definitions are shared,
// read-only prototypes: every system built from the same Content refers to
// the same *stat.Stat values.
type Content struct {
	stats   map[string]*stat.Stat
	sheets  map[string]*stat.Sheet
	effects map[string]*skill.SkillEffect
}

// Stat returns the stat named name, or nil.
func (c *Content) Stat(name string) *stat.Stat { return c.stats[name] }

// Sheet returns the sheet named name, or nil.
func (c *Content) Sheet(name string) *stat.Sheet { return c.sheets[name] }

// Effect returns the effect named name, or nil.
func (c *Content) Effect(name string) *skill.SkillEffect { return c.effects[name] }

// StatNames returns all stat names, sorted.
func (c *Content) StatNames() []string { return slices.Sorted(maps.Keys(c.stats)) }

// SheetNames returns all sheet names, sorted.
func (c *Content) SheetNames() []string { return slices.Sorted(maps.Keys(c.sheets)) }

// EffectNames returns all effect names, sorted.
func (c *Content) EffectNames() []string { return slices.Sorted(maps.Keys(c.effects)) }
