package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/statforge/internal/content"
)

const testContent = `
stats:
  - name: Health
  - name: Mana
sheets:
  - name: hero
    entries:
      - {stat: Health, initial: 50, min: 0, max: 100}
      - {stat: Mana, initial: 10, min: 0, max: 50}
effects:
  - name: Regen
    mode: periodic
    params: {duration: 5s, period: 1s}
    modifiers: [{stat: Health, op: add, value: 2}]
  - name: Shield
    mode: timed
    params: {duration: 3s}
    modifiers: [{stat: Health, op: add, value: 25}]
  - name: Potion
    mode: instant
    modifiers: [{stat: Mana, op: add, value: 5}]
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEntity(t *testing.T) *Entity {
	t.Helper()
	c, err := content.Parse([]byte(testContent))
	require.NoError(t, err)
	e, err := NewEntity("hero-1", c, "hero", discardLogger())
	require.NoError(t, err)
	return e
}

type memStore struct {
	values map[string]map[string]float64
}

func (m *memStore) SaveBaseValues(_ context.Context, id string, values map[string]float64) error {
	if m.values == nil {
		m.values = make(map[string]map[string]float64)
	}
	m.values[id] = values
	return nil
}

func (m *memStore) LoadBaseValues(_ context.Context, id string) (map[string]float64, error) {
	return m.values[id], nil
}
