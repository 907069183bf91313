package sim

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Step is one scripted action at a point in simulated time. A step may
// combine actions; they run in the order restore, clear, remove, apply, print.
type Step struct {
	At        time.Duration      `yaml:"at"`
	Apply     string             `yaml:"apply"`
	Magnitude float64            `yaml:"magnitude"`
	Remove    string             `yaml:"remove"`
	Clear     bool               `yaml:"clear"`
	Restore   map[string]float64 `yaml:"restore"`
	Print     bool               `yaml:"print"`
}

// Script is a simulation scenario.
type Script struct {
	// Frame overrides the configured frame length.
	Frame time.Duration `yaml:"frame"`
	// Until keeps the clock running after the last step.
	Until time.Duration `yaml:"until"`
	Steps []Step        `yaml:"steps"`
}

// LoadScript reads a simulation script from a YAML file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("reading script %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("parsing script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes a script and orders its steps by time (stable).
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, err
	}
	for i, st := range s.Steps {
		if st.At < 0 {
			return Script{}, fmt.Errorf("step %d: negative time %s", i, st.At)
		}
	}
	slices.SortStableFunc(s.Steps, func(a, b Step) int { return cmp.Compare(a.At, b.At) })
	return s, nil
}

// Store persists entity base values.
type Store interface {
	SaveBaseValues(ctx context.Context, entityID string, values map[string]float64) error
	LoadBaseValues(ctx context.Context, entityID string) (map[string]float64, error)
}

// Run plays script against the entity, advancing the clock frame by frame
// (the last frame before a step is shortened to land on it). A final table
// is always printed.
func (e *Entity) Run(s Script, frame time.Duration, out io.Writer) error {
	if s.Frame > 0 {
		frame = s.Frame
	}
	if frame <= 0 {
		return fmt.Errorf("frame must be positive, got %s", frame)
	}

	for i, st := range s.Steps {
		e.advanceTo(st.At, frame)
		if err := e.runStep(st, out); err != nil {
			return fmt.Errorf("step %d at %s: %w", i, st.At, err)
		}
	}
	e.advanceTo(s.Until, frame)

	return e.WriteTable(out)
}

func (e *Entity) advanceTo(at, frame time.Duration) {
	for e.Clock.Now() < at {
		e.Clock.Advance(min(frame, at-e.Clock.Now()))
	}
}

func (e *Entity) runStep(st Step, out io.Writer) error {
	if len(st.Restore) > 0 {
		e.System.Restore(st.Restore)
	}
	if st.Clear {
		e.System.RemoveAllSkillEffects()
	}
	if st.Remove != "" {
		e.Remove(st.Remove)
	}
	if st.Apply != "" {
		if _, err := e.Apply(st.Apply, st.Magnitude); err != nil {
			return err
		}
	}
	if st.Print {
		return e.WriteTable(out)
	}
	return nil
}

// LoadFrom restores base values stored for the entity.
// Returns the number of stats restored.
func (e *Entity) LoadFrom(ctx context.Context, store Store) (int, error) {
	values, err := store.LoadBaseValues(ctx, e.ID)
	if err != nil {
		return 0, fmt.Errorf("loading entity %s: %w", e.ID, err)
	}
	return e.System.Restore(values), nil
}

// SaveTo persists the entity's base values.
func (e *Entity) SaveTo(ctx context.Context, store Store) error {
	if err := store.SaveBaseValues(ctx, e.ID, e.System.Snapshot()); err != nil {
		return fmt.Errorf("saving entity %s: %w", e.ID, err)
	}
	return nil
}
