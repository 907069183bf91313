package stat

import (
	"fmt"
	"strings"
)

// Op defines how a modifier combines with the running value.
type Op int8

const (
	OpAdd Op = iota // value + operand
	OpSub           // value - operand
	OpMul           // value * operand
	OpDiv           // value / operand; a zero operand leaves value unchanged
	OpSet           // operand replaces value
)

var opNames = [...]string{"add", "sub", "mul", "div", "set"}

func (o Op) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp parses "add", "sub", "mul", "div" or "set" (case-insensitive).
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if strings.EqualFold(s, name) {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier op %q", s)
}

// ModContext carries per-application data alongside a modifier.
// Magnitude scales the operand of additive ops (add/sub); 0 counts as 1.
type ModContext struct {
	Magnitude float64
	Source    string
}

func (c ModContext) magnitude() float64 {
	if c.Magnitude == 0 {
		return 1
	}
	return c.Magnitude
}

// Modifier contributes one step of an aggregate fold.
type Modifier interface {
	Modify(value float64, ctx ModContext) float64
}

// Mod is the stock arithmetic Modifier.
type Mod struct {
	Op    Op
	Value float64
}

// Modify implements Modifier.
func (m Mod) Modify(value float64, ctx ModContext) float64 {
	switch m.Op {
	case OpAdd:
		return value + m.Value*ctx.magnitude()
	case OpSub:
		return value - m.Value*ctx.magnitude()
	case OpMul:
		return value * m.Value
	case OpDiv:
		if m.Value == 0 {
			return value
		}
		return value / m.Value
	case OpSet:
		return m.Value
	default:
		return value
	}
}

func (m Mod) String() string {
	return fmt.Sprintf("%s %g", m.Op, m.Value)
}

// Add, Mul and Set are shorthands for the common Mod values.
func Add(v float64) Mod { return Mod{Op: OpAdd, Value: v} }
func Mul(v float64) Mod { return Mod{Op: OpMul, Value: v} }
func Set(v float64) Mod { return Mod{Op: OpSet, Value: v} }
