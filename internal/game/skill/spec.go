package skill

import (
	"github.com/udisondev/statforge/internal/game/handle"
	"github.com/udisondev/statforge/internal/game/stat"
)

// Spec holds the base-value modifiers of one active effect, one aggregator
// per stat, so a single execution updates every affected stat.
type Spec struct {
	handles *handle.Registry
	aggs    map[*stat.Stat]*stat.ModAggregator
	order   []*stat.Stat
}

func newSpec(reg *handle.Registry) *Spec {
	return &Spec{
		handles: reg,
		aggs:    make(map[*stat.Stat]*stat.ModAggregator),
	}
}

// AggregatorFor returns the aggregator for st, creating it on first use.
func (s *Spec) AggregatorFor(st *stat.Stat) *stat.ModAggregator {
	if agg, ok := s.aggs[st]; ok {
		return agg
	}
	agg := stat.NewModAggregator(s.handles)
	s.aggs[st] = agg
	s.order = append(s.order, st)
	return agg
}

// Aggregator returns the aggregator for st, or nil.
func (s *Spec) Aggregator(st *stat.Stat) *stat.ModAggregator {
	return s.aggs[st]
}

// Each visits the aggregators in first-use order.
func (s *Spec) Each(fn func(st *stat.Stat, agg *stat.ModAggregator)) {
	for _, st := range s.order {
		if agg, ok := s.aggs[st]; ok {
			fn(st, agg)
		}
	}
}

// Len returns the number of stats covered.
func (s *Spec) Len() int { return len(s.order) }

// Release clears every aggregator, returning their handles to the registry.
func (s *Spec) Release() {
	for _, agg := range s.aggs {
		agg.Clear()
	}
	clear(s.aggs)
	s.order = nil
}
