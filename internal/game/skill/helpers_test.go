package skill

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/statforge/internal/game/stat"
	"github.com/udisondev/statforge/internal/game/timeunit"
)

var (
	healthStat = stat.New("Health", nil)
	manaStat   = stat.New("Mana", nil)
	armorStat  = stat.New("Armor", nil)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustRange(t *testing.T, lo, hi float64) *stat.Range {
	t.Helper()
	r, err := stat.NewRange(lo, hi)
	require.NoError(t, err)
	return &r
}

// testSheet: Health [0,100]=50, Mana [0,50]=10, Armor [0,1000]=5.
func testSheet(t *testing.T) *stat.Sheet {
	t.Helper()
	return &stat.Sheet{
		Name: "test",
		Entries: []stat.SheetEntry{
			{Stat: healthStat, Initial: 50, Range: mustRange(t, 0, 100)},
			{Stat: manaStat, Initial: 10, Range: mustRange(t, 0, 50)},
			{Stat: armorStat, Initial: 5, Range: mustRange(t, 0, 1000)},
		},
	}
}

func newTestSystem(t *testing.T) (*SkillsSystem, *timeunit.Clock) {
	t.Helper()
	clock := timeunit.NewClock()
	return NewSkillsSystem(discardLogger(), clock, testSheet(t)), clock
}

func instantEffect(name string, mods ...EffectModifier) *SkillEffect {
	return &SkillEffect{Name: name, Modifiers: mods, Mode: &InstantMode{}}
}

func timedEffect(name string, d time.Duration, mods ...EffectModifier) *SkillEffect {
	return &SkillEffect{Name: name, Modifiers: mods, Mode: &TimedMode{Duration: d}}
}

func periodicEffect(name string, d, period time.Duration, mods ...EffectModifier) *SkillEffect {
	return &SkillEffect{
		Name:      name,
		Modifiers: mods,
		Mode:      &PeriodicMode{TimedMode: TimedMode{Duration: d}, Period: period},
	}
}

func mod(st *stat.Stat, m stat.Mod) EffectModifier {
	return EffectModifier{Stat: st, Mod: m}
}

func current(sys *SkillsSystem, st *stat.Stat) float64 {
	return sys.FindActiveStat(st).CurrentValue()
}

func base(sys *SkillsSystem, st *stat.Stat) float64 {
	return sys.FindActiveStat(st).BaseValue()
}

func advanceFrames(clock *timeunit.Clock, n int, frame time.Duration) {
	for range n {
		clock.Advance(frame)
	}
}
