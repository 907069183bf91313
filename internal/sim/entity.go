// Package sim drives skills systems built from content: scripted runs on a
// stepped clock for statsim simulate, and a live HTTP surface for serve.
package sim

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/samber/oops"

	"github.com/udisondev/statforge/internal/content"
	"github.com/udisondev/statforge/internal/game/handle"
	"github.com/udisondev/statforge/internal/game/skill"
	"github.com/udisondev/statforge/internal/game/timeunit"
)

// CodeUnknownEffect marks a request naming an effect absent from content.
const CodeUnknownEffect = "unknown_effect"

// Entity is one skills system driven by its own clock.
type Entity struct {
	ID      string
	Content *content.Content
	System  *skill.SkillsSystem
	Clock   *timeunit.Clock
}

// NewEntity builds an entity from the named sheet.
func NewEntity(id string, c *content.Content, sheet string, logger *slog.Logger) (*Entity, error) {
	sh := c.Sheet(sheet)
	if sh == nil {
		return nil, oops.Code(content.CodeUnknownSheet).With("sheet", sheet).Errorf("unknown sheet %q", sheet)
	}
	if logger == nil {
		logger = slog.Default()
	}
	clock := timeunit.NewClock()
	return &Entity{
		ID:      id,
		Content: c,
		System:  skill.NewSkillsSystem(logger.With("entity", id), clock, sh),
		Clock:   clock,
	}, nil
}

// Apply applies the named effect with magnitude. The returned handle is
// handle.Invalid when the effect removed itself (instant effects) or was
// rejected by stacking.
func (e *Entity) Apply(name string, magnitude float64) (handle.Handle, error) {
	def := e.Content.Effect(name)
	if def == nil {
		return handle.Invalid, oops.Code(CodeUnknownEffect).With("effect", name).Errorf("unknown effect %q", name)
	}
	return e.System.ApplySkillEffect(&skill.SkillEffectContext{
		Effect:    def,
		Magnitude: magnitude,
	}), nil
}

// Remove removes every active instance of the named effect.
func (e *Entity) Remove(name string) int {
	return e.System.RemoveSkillEffectsByName(name)
}

// StatRow is one line of a stat table.
type StatRow struct {
	Name    string  `json:"name"`
	Base    float64 `json:"base"`
	Current float64 `json:"current"`
}

// Rows returns the entity's stats in creation order.
func (e *Entity) Rows() []StatRow {
	all := e.System.All()
	rows := make([]StatRow, 0, len(all))
	for _, as := range all {
		rows = append(rows, StatRow{
			Name:    as.Stat().Name(),
			Base:    as.BaseValue(),
			Current: as.CurrentValue(),
		})
	}
	return rows
}

// WriteTable prints the stats and active effects.
func (e *Entity) WriteTable(w io.Writer) error {
	fmt.Fprintf(w, "t=%s\n", e.Clock.Now())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAT\tBASE\tCURRENT\tRANGE")
	for _, as := range e.System.All() {
		rng := "-"
		if r, ok := as.Range(); ok {
			rng = r.String()
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", as.Stat().Name(), as.BaseValue(), as.CurrentValue(), rng)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing stat table: %w", err)
	}

	for _, ae := range e.System.ActiveSkillEffects() {
		fmt.Fprintf(w, "  effect %s (%s) executions=%d\n", ae.Effect().Name, ae.Mode().Name(), ae.Executions())
	}
	return nil
}
