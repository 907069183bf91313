package skill

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ModeFactory builds a mode prototype from content parameters.
type ModeFactory func(params map[string]string) (Mode, error)

// modeRegistry maps mode name -> factory.
// Populated in init(); content loaders resolve mode names through it.
var modeRegistry = map[string]ModeFactory{}

// RegisterMode registers a mode factory by name (case-insensitive).
func RegisterMode(name string, factory ModeFactory) {
	modeRegistry[strings.ToLower(name)] = factory
}

// CreateMode creates a mode prototype by name.
// Returns error if name is not registered or params are malformed.
func CreateMode(name string, params map[string]string) (Mode, error) {
	factory, ok := modeRegistry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown effect mode: %s", name)
	}
	return factory(params)
}

// ModeNames returns registered mode names, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(modeRegistry))
	for name := range modeRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	RegisterMode("instant", newInstantMode)
	RegisterMode("timed", newTimedMode)
	RegisterMode("periodic", newPeriodicMode)
}

func newInstantMode(map[string]string) (Mode, error) {
	return &InstantMode{}, nil
}

// Params: "duration" (Go duration, optional; empty = until removed).
func newTimedMode(params map[string]string) (Mode, error) {
	d, err := durationParam(params, "duration")
	if err != nil {
		return nil, err
	}
	return &TimedMode{Duration: d}, nil
}

// Params: "period" (required, > 0), "duration" (optional),
// "execute_on_apply" (bool, default false).
func newPeriodicMode(params map[string]string) (Mode, error) {
	d, err := durationParam(params, "duration")
	if err != nil {
		return nil, err
	}
	period, err := durationParam(params, "period")
	if err != nil {
		return nil, err
	}
	if period <= 0 {
		return nil, fmt.Errorf("periodic mode needs a positive period, got %q", params["period"])
	}
	var onApply bool
	if v, ok := params["execute_on_apply"]; ok && v != "" {
		onApply, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing execute_on_apply %q: %w", v, err)
		}
	}
	return &PeriodicMode{
		TimedMode:      TimedMode{Duration: d},
		Period:         period,
		ExecuteOnApply: onApply,
	}, nil
}

func durationParam(params map[string]string, key string) (time.Duration, error) {
	v := params[key]
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}
