package skill

import (
	"log/slog"
	"slices"

	"github.com/udisondev/statforge/internal/game/handle"
	"github.com/udisondev/statforge/internal/game/stat"
)

// SkillsSystem is a stat system that effects can be applied to.
// It owns the active effects targeting its stats.
//
// Single-threaded like the rest of the engine. Removal deletes the effect
// from the active map before disposing it, so a self-removal triggered from
// a callback and an outer removal of the same handle cannot both dispose.
type SkillsSystem struct {
	*stat.System

	time          TimeUnit
	effectHandles *handle.Registry
	active        map[handle.Handle]*ActiveSkillEffect
	order         []*ActiveSkillEffect
	byStack       map[string]handle.Handle
}

// NewSkillsSystem creates a skills system over the given sheets.
// tu may be nil, in which case timed effects never expire on their own.
func NewSkillsSystem(logger *slog.Logger, tu TimeUnit, sheets ...*stat.Sheet) *SkillsSystem {
	return &SkillsSystem{
		System:        stat.NewSystem(logger, sheets...),
		time:          tu,
		effectHandles: handle.NewRegistry(),
		active:        make(map[handle.Handle]*ActiveSkillEffect),
		byStack:       make(map[string]handle.Handle),
	}
}

// TimeUnit returns the timer service used by modes.
func (s *SkillsSystem) TimeUnit() TimeUnit { return s.time }

// ApplySkillEffect applies ctx and returns the handle of the new active
// effect. It returns handle.Invalid when the context is invalid, the stack
// rules reject it, or the effect removed itself before returning (instant
// effects always do).
//
// When ctx.Target is another system the effect is applied there and lives
// in that system's registry.
func (s *SkillsSystem) ApplySkillEffect(ctx *SkillEffectContext) handle.Handle {
	logger := s.Logger()
	if ctx == nil || ctx.Effect == nil {
		logger.Error("apply skill effect: missing effect definition")
		EffectsRejected.WithLabelValues(RejectInvalidContext).Inc()
		return handle.Invalid
	}
	if err := ctx.Effect.validate(); err != nil {
		logger.Error("apply skill effect: invalid effect definition",
			"effect", ctx.Effect.Name,
			"error", err)
		EffectsRejected.WithLabelValues(RejectInvalidEffect).Inc()
		return handle.Invalid
	}

	c := ctx.Clone()
	if c.Source == nil {
		c.Source = s
	}
	if c.Target == nil {
		c.Target = s
	}
	if c.Target != s {
		return c.Target.ApplySkillEffect(c)
	}

	if existing := s.stackedWith(c.Effect); existing != nil {
		switch {
		case c.Effect.StackLevel > existing.effect.StackLevel:
			logger.Debug("skill effect replaces lower stack level",
				"effect", c.Effect.Name,
				"replaced", existing.effect.Name,
				"stackType", c.Effect.StackType)
			s.RemoveActiveSkillEffectByHandle(existing.handle)
		case c.Effect.StackLevel == existing.effect.StackLevel:
			if r, ok := existing.mode.(Refresher); ok {
				r.Refresh(existing)
			}
			logger.Debug("skill effect refreshed",
				"effect", existing.effect.Name,
				"id", existing.id)
			return existing.handle
		default:
			logger.Debug("skill effect rejected by stack level",
				"effect", c.Effect.Name,
				"level", c.Effect.StackLevel,
				"existing", existing.effect.StackLevel)
			EffectsRejected.WithLabelValues(RejectStackLevel).Inc()
			return handle.Invalid
		}
	}

	ae := &ActiveSkillEffect{
		handle: s.effectHandles.New(),
		id:     newInstanceID(),
		system: s,
		effect: c.Effect,
		mode:   c.Effect.Mode.Clone(),
		ctx:    c,
		spec:   newSpec(s.Handles()),
	}
	s.active[ae.handle] = ae
	s.order = append(s.order, ae)
	if c.Effect.StackType != "" {
		s.byStack[c.Effect.StackType] = ae.handle
	}

	EffectsApplied.WithLabelValues(ae.mode.Name()).Inc()
	EffectsActive.Inc()

	// Stat listeners fired while aggregating may already remove the effect.
	s.aggregate(ae)
	if ae.state == StateRemoved {
		return handle.Invalid
	}

	logger.Debug("skill effect applied",
		"effect", ae.effect.Name,
		"id", ae.id,
		"mode", ae.mode.Name(),
		"target", ae.mode.Target())

	h := ae.handle
	if hook := ae.effect.Hooks.Applied; hook != nil {
		hook(ae)
	}
	if ae.state == StateApplied {
		ae.mode.OnApplied(ae)
	}

	if _, ok := s.active[h]; !ok {
		return handle.Invalid
	}
	return h
}

// ApplySkillEffectToTarget applies effect from s onto target.
func (s *SkillsSystem) ApplySkillEffectToTarget(effect *SkillEffect, target *SkillsSystem, magnitude float64) handle.Handle {
	if target == nil {
		name := ""
		if effect != nil {
			name = effect.Name
		}
		s.Logger().Warn("apply skill effect: no target", "effect", name)
		EffectsRejected.WithLabelValues(RejectInvalidTarget).Inc()
		return handle.Invalid
	}
	return s.ApplySkillEffect(&SkillEffectContext{
		Effect:    effect,
		Source:    s,
		Target:    target,
		Magnitude: magnitude,
	})
}

// aggregate registers the effect's modifiers: base-value ones into the
// Spec, current-value ones straight onto the target stats.
func (s *SkillsSystem) aggregate(ae *ActiveSkillEffect) {
	modCtx := ae.ctx.modContext()
	toBase := ae.mode.Target() == TargetBaseValue

	for _, em := range ae.effect.Modifiers {
		if toBase {
			ae.spec.AggregatorFor(em.Stat).AddModifier(em.Mod, modCtx)
			continue
		}
		as := s.FindActiveStat(em.Stat)
		if as == nil {
			continue
		}
		h := as.AddModifier(em.Mod, modCtx)
		if ae.state == StateRemoved {
			// Disposed from a listener before this handle was tracked.
			as.RemoveModifier(h)
			return
		}
		ae.applied = append(ae.applied, appliedModifier{stat: as, h: h})
	}
}

// ExecuteSkillEffect folds a base-value effect's Spec into the target
// stats. Returns false for unknown handles and for current-value effects,
// which never execute.
func (s *SkillsSystem) ExecuteSkillEffect(h handle.Handle) bool {
	ae, ok := s.active[h]
	if !ok || ae.mode.Target() != TargetBaseValue {
		return false
	}

	if hook := ae.effect.Hooks.PreExecute; hook != nil {
		hook(ae)
		if ae.state == StateRemoved {
			return false
		}
	}

	ae.spec.Each(func(st *stat.Stat, agg *stat.ModAggregator) {
		s.ApplyModAggregatorToStat(st, agg)
	})
	ae.executions++
	EffectExecutions.WithLabelValues(ae.mode.Name()).Inc()

	if hook := ae.effect.Hooks.PostExecute; hook != nil {
		hook(ae)
	}
	if ae.state == StateApplied {
		ae.mode.OnExecuted(ae)
	}
	return true
}

// RemoveActiveSkillEffectByHandle removes and disposes the effect.
// Unknown or already removed handles return false.
func (s *SkillsSystem) RemoveActiveSkillEffectByHandle(h handle.Handle) bool {
	ae, ok := s.active[h]
	if !ok {
		return false
	}

	delete(s.active, h)
	s.order = slices.DeleteFunc(s.order, func(x *ActiveSkillEffect) bool { return x == ae })
	if st := ae.effect.StackType; st != "" && s.byStack[st] == h {
		delete(s.byStack, st)
	}
	s.effectHandles.Release(h)

	ae.mode.OnPreRemoved(ae)
	ae.dispose()

	EffectsRemoved.WithLabelValues(ae.mode.Name()).Inc()
	EffectsActive.Dec()
	s.Logger().Debug("skill effect removed",
		"effect", ae.effect.Name,
		"id", ae.id,
		"executions", ae.executions)

	if hook := ae.effect.Hooks.Removed; hook != nil {
		hook(ae)
	}
	return true
}

// RemoveSkillEffectsByName removes every active effect whose definition is
// named name. Returns the number removed.
func (s *SkillsSystem) RemoveSkillEffectsByName(name string) int {
	return s.removeWhere(func(ae *ActiveSkillEffect) bool { return ae.effect.Name == name })
}

// RemoveSkillEffectsByStackType removes the effect holding stackType.
func (s *SkillsSystem) RemoveSkillEffectsByStackType(stackType string) int {
	return s.removeWhere(func(ae *ActiveSkillEffect) bool { return ae.effect.StackType == stackType })
}

// RemoveAllSkillEffects removes every active effect, e.g. on teardown.
func (s *SkillsSystem) RemoveAllSkillEffects() int {
	return s.removeWhere(func(*ActiveSkillEffect) bool { return true })
}

func (s *SkillsSystem) removeWhere(match func(*ActiveSkillEffect) bool) int {
	removed := 0
	// Removal hooks may remove other effects, so iterate a snapshot.
	for _, ae := range slices.Clone(s.order) {
		if match(ae) && s.RemoveActiveSkillEffectByHandle(ae.handle) {
			removed++
		}
	}
	return removed
}

// FindActiveSkillEffect returns the active effect for h, or nil.
func (s *SkillsSystem) FindActiveSkillEffect(h handle.Handle) *ActiveSkillEffect {
	return s.active[h]
}

// ActiveSkillEffects returns live effects in application order.
func (s *SkillsSystem) ActiveSkillEffects() []*ActiveSkillEffect {
	return slices.Clone(s.order)
}

// ActiveSkillEffectCount returns the number of live effects.
func (s *SkillsSystem) ActiveSkillEffectCount() int {
	return len(s.active)
}

func (s *SkillsSystem) stackedWith(e *SkillEffect) *ActiveSkillEffect {
	if e.StackType == "" {
		return nil
	}
	h, ok := s.byStack[e.StackType]
	if !ok {
		return nil
	}
	return s.active[h]
}
