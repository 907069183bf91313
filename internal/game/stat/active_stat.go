package stat

import (
	"slices"

	"github.com/udisondev/statforge/internal/game/handle"
)

// Update describes one change of an ActiveStat.
type Update struct {
	Stat        *ActiveStat
	PrevBase    float64
	PrevCurrent float64
}

// Listener receives stat updates synchronously.
type Listener func(Update)

type listenerEntry struct {
	id int
	fn Listener
}

// ActiveStat is the live instance of a Stat inside one System.
//
// baseValue is permanent and changes only through ApplyModAggregator.
// currentValue is always the private current-value aggregator folded over
// baseValue, clamped to the range once the stat is initialized.
type ActiveStat struct {
	stat   *Stat
	system *System

	base    float64
	current float64
	rng     *Range // nil until InitializeFromSheet

	mods *ModAggregator

	// Parent and root links are kept for cross-stat influence.
	// Nothing propagates through them yet.
	parent *ActiveStat
	root   *ActiveStat

	listeners    []listenerEntry
	nextListener int
}

func newActiveStat(st *Stat, sys *System, parent *ActiveStat) *ActiveStat {
	as := &ActiveStat{
		stat:   st,
		system: sys,
		parent: parent,
	}
	if sys != nil {
		as.mods = NewModAggregator(sys.handles)
	} else {
		as.mods = NewModAggregator(nil)
	}
	as.mods.SetDirtyHandler(as.recalculateCurrent)

	as.root = as
	if parent != nil {
		as.root = parent.root
	}
	return as
}

// Stat returns the owning definition.
func (s *ActiveStat) Stat() *Stat { return s.stat }

// System returns the owning system.
func (s *ActiveStat) System() *System { return s.system }

// BaseValue returns the permanent value.
func (s *ActiveStat) BaseValue() float64 { return s.base }

// CurrentValue returns the base value with all current-value modifiers applied.
func (s *ActiveStat) CurrentValue() float64 { return s.current }

// Range returns the clamp range and whether the stat is initialized.
func (s *ActiveStat) Range() (Range, bool) {
	if s.rng == nil {
		return Range{}, false
	}
	return *s.rng, true
}

// IsInitialized reports whether a sheet entry has been applied.
func (s *ActiveStat) IsInitialized() bool { return s.rng != nil }

// Parent returns the active stat of the definition's parent, or nil.
func (s *ActiveStat) Parent() *ActiveStat { return s.parent }

// Root returns the top of the parent chain (s itself when there is no parent).
func (s *ActiveStat) Root() *ActiveStat { return s.root }

// ModifierCount returns the number of live current-value modifiers.
func (s *ActiveStat) ModifierCount() int { return s.mods.Len() }

// HasModifier reports whether h is registered on the current-value aggregator.
func (s *ActiveStat) HasModifier(h handle.Handle) bool { return s.mods.Contains(h) }

// InitializeFromSheet applies entry once. It returns false, changing
// nothing, when entry is for another stat or the stat is already initialized.
func (s *ActiveStat) InitializeFromSheet(entry SheetEntry) bool {
	if entry.Stat != s.stat || s.rng != nil {
		return false
	}

	r := Unbounded()
	if entry.Range != nil {
		r = *entry.Range
	}
	s.rng = &r

	prevBase, prevCurrent := s.base, s.current
	s.base = r.Clamp(entry.Initial)
	s.current = s.computeCurrent()
	if !ApproxEqual(prevBase, s.base) || !ApproxEqual(prevCurrent, s.current) {
		s.notify(prevBase, prevCurrent)
	}
	return true
}

// ApplyModAggregator folds agg over the base value and stores the result as
// the new base value. Returns true if the base value changed.
//
// Clamping only happens once the stat is initialized; an aggregator applied
// before InitializeFromSheet writes the raw folded value.
func (s *ActiveStat) ApplyModAggregator(agg *ModAggregator) bool {
	if agg == nil {
		return false
	}

	next := agg.CalculateValue(s)
	if s.rng != nil {
		next = s.rng.Clamp(next)
	}
	if ApproxEqual(next, s.base) {
		return false
	}

	prevBase, prevCurrent := s.base, s.current
	s.base = next
	s.current = s.computeCurrent()
	s.notify(prevBase, prevCurrent)
	return true
}

// AddModifier registers a current-value modifier. CurrentValue is up to date
// when this returns.
func (s *ActiveStat) AddModifier(mod Modifier, ctx ModContext) handle.Handle {
	return s.mods.AddModifier(mod, ctx)
}

// RemoveModifier unregisters a current-value modifier. Unknown or already
// removed handles are ignored.
func (s *ActiveStat) RemoveModifier(h handle.Handle) bool {
	return s.mods.RemoveModifier(h)
}

// Listen subscribes fn to updates of this stat. The returned func cancels
// the subscription and may be called more than once.
func (s *ActiveStat) Listen(fn Listener) (cancel func()) {
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listenerEntry) bool {
			return l.id == id
		})
	}
}

func (s *ActiveStat) computeCurrent() float64 {
	v := s.mods.CalculateValue(s)
	if s.rng != nil {
		v = s.rng.Clamp(v)
	}
	return v
}

// recalculateCurrent is the dirty handler of the current-value aggregator.
func (s *ActiveStat) recalculateCurrent() {
	next := s.computeCurrent()
	if ApproxEqual(next, s.current) {
		return
	}
	prev := s.current
	s.current = next
	s.notify(s.base, prev)
}

func (s *ActiveStat) notify(prevBase, prevCurrent float64) {
	u := Update{Stat: s, PrevBase: prevBase, PrevCurrent: prevCurrent}
	// Listeners may cancel themselves while we iterate.
	for _, l := range slices.Clone(s.listeners) {
		l.fn(u)
	}
	if s.system != nil {
		s.system.statUpdated(u)
	}
}
