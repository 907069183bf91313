package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want Op
	}{
		{"add", OpAdd},
		{"ADD", OpAdd},
		{"Sub", OpSub},
		{"mul", OpMul},
		{"div", OpDiv},
		{"set", OpSet},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseOp("pow")
	assert.Error(t, err)
}

func TestMod_Modify(t *testing.T) {
	tests := []struct {
		name string
		mod  Mod
		ctx  ModContext
		in   float64
		want float64
	}{
		{"add", Add(10), ModContext{}, 5, 15},
		{"add scaled by magnitude", Add(10), ModContext{Magnitude: 2}, 5, 25},
		{"sub", Mod{Op: OpSub, Value: 3}, ModContext{}, 5, 2},
		{"mul ignores magnitude", Mul(2), ModContext{Magnitude: 3}, 5, 10},
		{"div", Mod{Op: OpDiv, Value: 4}, ModContext{}, 10, 2.5},
		{"div by zero keeps value", Mod{Op: OpDiv, Value: 0}, ModContext{}, 10, 10},
		{"set", Set(42), ModContext{}, 5, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.mod.Modify(tt.in, tt.ctx), 1e-9)
		})
	}
}

func TestNewRange(t *testing.T) {
	r, err := NewRange(0, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Clamp(-5))
	assert.Equal(t, 100.0, r.Clamp(500))
	assert.Equal(t, 42.0, r.Clamp(42))
	assert.True(t, r.Contains(100))

	_, err = NewRange(10, 1)
	assert.Error(t, err, "inverted range must be rejected")

	u := Unbounded()
	assert.Equal(t, 1e300, u.Clamp(1e300))
}

func TestApproxEqual(t *testing.T) {
	assert.True(t, ApproxEqual(1, 1))
	assert.True(t, ApproxEqual(0.1+0.2, 0.3))
	assert.True(t, ApproxEqual(1e6, 1e6+1e-3))
	assert.False(t, ApproxEqual(1, 1.001))
	assert.False(t, ApproxEqual(0, 1e-3))
}
