// Package stat implements live numeric attributes: stat definitions, ordered
// modifier aggregation, active per-owner stat instances and the system that
// builds them from layered stat sheets.
//
// Recalculation is push-based. Adding or removing a modifier recomputes the
// owning stat before the call returns, and stat listeners fire on the same
// call stack. Nothing here locks; callers keep all mutation on one goroutine.
package stat

// Stat is the immutable identity of a tracked attribute (e.g. "Health").
// One *Stat is shared by every System; compare stats by pointer.
type Stat struct {
	name   string
	parent *Stat
}

// New creates a stat definition. parent may be nil.
func New(name string, parent *Stat) *Stat {
	return &Stat{name: name, parent: parent}
}

// Name returns the stat name.
func (s *Stat) Name() string { return s.name }

// Parent returns the parent definition, or nil.
func (s *Stat) Parent() *Stat { return s.parent }

func (s *Stat) String() string {
	if s == nil {
		return "<nil stat>"
	}
	return s.name
}
