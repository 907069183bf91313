package stat

import (
	"slices"

	"github.com/udisondev/statforge/internal/game/handle"
)

type aggEntry struct {
	h   handle.Handle
	mod Modifier
	ctx ModContext
}

// ModAggregator is an ordered collection of modifiers keyed by handle.
// The fold runs in insertion order; ops are not assumed to commute, so
// add-then-multiply and multiply-then-add give different results.
//
// Every add/remove calls the dirty handler synchronously. The owner decides
// what to recompute.
type ModAggregator struct {
	handles *handle.Registry
	entries []aggEntry
	onDirty func()
}

// NewModAggregator creates an aggregator drawing handles from reg.
// A nil reg gives the aggregator a private registry.
func NewModAggregator(reg *handle.Registry) *ModAggregator {
	if reg == nil {
		reg = handle.NewRegistry()
	}
	return &ModAggregator{handles: reg}
}

// SetDirtyHandler installs the membership-change callback (nil clears it).
func (a *ModAggregator) SetDirtyHandler(fn func()) {
	a.onDirty = fn
}

// AddModifier appends mod at the end of the ordering and returns its handle.
// Modifier content is not validated here.
func (a *ModAggregator) AddModifier(mod Modifier, ctx ModContext) handle.Handle {
	h := a.handles.New()
	a.entries = append(a.entries, aggEntry{h: h, mod: mod, ctx: ctx})
	a.markDirty()
	return h
}

// RemoveModifier drops the entry for h. Removing an absent or already
// removed handle is a no-op and returns false.
func (a *ModAggregator) RemoveModifier(h handle.Handle) bool {
	i := a.indexOf(h)
	if i < 0 {
		return false
	}
	a.entries = slices.Delete(a.entries, i, i+1)
	a.handles.Release(h)
	a.markDirty()
	return true
}

// Contains reports whether h is registered here.
func (a *ModAggregator) Contains(h handle.Handle) bool {
	return a.indexOf(h) >= 0
}

// Len returns the number of registered modifiers.
func (a *ModAggregator) Len() int {
	return len(a.entries)
}

// Handles returns the registered handles in fold order.
func (a *ModAggregator) Handles() []handle.Handle {
	out := make([]handle.Handle, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.h
	}
	return out
}

// Clear removes every modifier, releasing their handles.
// The dirty handler fires once if anything was removed.
func (a *ModAggregator) Clear() {
	if len(a.entries) == 0 {
		return
	}
	for _, e := range a.entries {
		a.handles.Release(e.h)
	}
	a.entries = a.entries[:0]
	a.markDirty()
}

// CalculateValue folds all modifiers over the owner's base value.
// A nil owner folds over zero.
func (a *ModAggregator) CalculateValue(owner *ActiveStat) float64 {
	start := 0.0
	if owner != nil {
		start = owner.base
	}
	return a.Fold(start)
}

// Fold applies every modifier, in insertion order, starting from start.
// Pure with respect to membership and order.
func (a *ModAggregator) Fold(start float64) float64 {
	v := start
	for _, e := range a.entries {
		v = e.mod.Modify(v, e.ctx)
	}
	return v
}

func (a *ModAggregator) indexOf(h handle.Handle) int {
	if !h.IsValid() {
		return -1
	}
	for i, e := range a.entries {
		if e.h == h {
			return i
		}
	}
	return -1
}

func (a *ModAggregator) markDirty() {
	if a.onDirty != nil {
		a.onDirty()
	}
}
