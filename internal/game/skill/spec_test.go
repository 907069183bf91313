package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/statforge/internal/game/handle"
	"github.com/udisondev/statforge/internal/game/stat"
)

func TestSpec_AggregatorPerStatInFirstUseOrder(t *testing.T) {
	reg := handle.NewRegistry()
	s := newSpec(reg)

	hp := s.AggregatorFor(healthStat)
	s.AggregatorFor(manaStat).AddModifier(stat.Add(1), stat.ModContext{})
	hp.AddModifier(stat.Add(2), stat.ModContext{})
	assert.Same(t, hp, s.AggregatorFor(healthStat))
	assert.Nil(t, s.Aggregator(armorStat))

	var order []string
	s.Each(func(st *stat.Stat, _ *stat.ModAggregator) { order = append(order, st.Name()) })
	assert.Equal(t, []string{"Health", "Mana"}, order)
	assert.Equal(t, 2, reg.Len())

	s.Release()
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, s.Len())
}

func TestSkillEffectContext_Clone(t *testing.T) {
	var nilCtx *SkillEffectContext
	assert.Nil(t, nilCtx.Clone())

	c := &SkillEffectContext{Magnitude: 3, Tags: map[string]string{"k": "v"}}
	cp := c.Clone()
	cp.Tags["k"] = "changed"
	cp.Magnitude = 1
	assert.Equal(t, "v", c.Tags["k"])
	assert.Equal(t, 3.0, c.Magnitude)
}
