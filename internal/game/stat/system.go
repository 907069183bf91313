package stat

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/udisondev/statforge/internal/game/handle"
)

// System owns the active stats of one entity, built from layered sheets.
// Every aggregator inside the system draws handles from one registry, so a
// handle identifies a single registration across all of its stats.
type System struct {
	logger  *slog.Logger
	handles *handle.Registry

	stats  map[*Stat]*ActiveStat
	byName map[string]*ActiveStat
	order  []*ActiveStat

	listeners    []listenerEntry
	nextListener int
}

// NewSystem creates a System and initializes it from sheets.
// Earlier sheets win over later ones, and within a sheet own entries win
// over inherited ones: the first entry seen for a stat initializes it.
// A nil logger falls back to slog.Default().
func NewSystem(logger *slog.Logger, sheets ...*Sheet) *System {
	if logger == nil {
		logger = slog.Default()
	}
	s := &System{
		logger:  logger,
		handles: handle.NewRegistry(),
		stats:   make(map[*Stat]*ActiveStat),
		byName:  make(map[string]*ActiveStat),
	}

	for _, sh := range sheets {
		sh.Walk(func(e SheetEntry) {
			s.ensure(e.Stat).InitializeFromSheet(e)
		})
	}

	logger.Debug("stat system initialized",
		"sheets", len(sheets),
		"stats", len(s.order))
	return s
}

// ensure returns the active stat for st, creating it (and its parents
// first) when missing.
func (s *System) ensure(st *Stat) *ActiveStat {
	if as, ok := s.stats[st]; ok {
		return as
	}
	var parent *ActiveStat
	if st.parent != nil {
		parent = s.ensure(st.parent)
	}
	as := newActiveStat(st, s, parent)
	s.stats[st] = as
	s.byName[st.name] = as
	s.order = append(s.order, as)
	return as
}

// Logger returns the system logger.
func (s *System) Logger() *slog.Logger { return s.logger }

// Handles returns the registry shared by the system's aggregators.
func (s *System) Handles() *handle.Registry { return s.handles }

// FindActiveStat returns the active stat for st, or nil.
func (s *System) FindActiveStat(st *Stat) *ActiveStat {
	if st == nil {
		return nil
	}
	return s.stats[st]
}

// FindByName returns the active stat whose definition is named name, or nil.
func (s *System) FindByName(name string) *ActiveStat {
	return s.byName[name]
}

// ApplyModAggregatorToStat folds agg into st's base value.
// Missing stat or nil aggregator is a no-op returning false.
func (s *System) ApplyModAggregatorToStat(st *Stat, agg *ModAggregator) bool {
	as := s.FindActiveStat(st)
	if as == nil || agg == nil {
		return false
	}
	return as.ApplyModAggregator(agg)
}

// Stats returns a copy of the stat map for read-only observers.
func (s *System) Stats() map[*Stat]*ActiveStat {
	return maps.Clone(s.stats)
}

// All returns active stats in creation order.
func (s *System) All() []*ActiveStat {
	return slices.Clone(s.order)
}

// Len returns the number of active stats.
func (s *System) Len() int { return len(s.order) }

// OnStatUpdated subscribes fn to updates of every stat in the system.
func (s *System) OnStatUpdated(fn Listener) (cancel func()) {
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listenerEntry) bool {
			return l.id == id
		})
	}
}

func (s *System) statUpdated(u Update) {
	for _, l := range slices.Clone(s.listeners) {
		l.fn(u)
	}
}

// Snapshot returns base values keyed by stat name.
func (s *System) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.order))
	for _, as := range s.order {
		out[as.stat.name] = as.base
	}
	return out
}

// Restore writes persisted base values back through a set-aggregator, so
// range clamping and update events apply as for any other base change.
// Unknown names are skipped. Returns the number of stats restored.
func (s *System) Restore(values map[string]float64) int {
	agg := NewModAggregator(s.handles)
	restored := 0
	for name, v := range values {
		as := s.byName[name]
		if as == nil {
			s.logger.Warn("restore: unknown stat", "stat", name)
			continue
		}
		h := agg.AddModifier(Set(v), ModContext{Source: "restore"})
		as.ApplyModAggregator(agg)
		agg.RemoveModifier(h)
		restored++
	}
	return restored
}
