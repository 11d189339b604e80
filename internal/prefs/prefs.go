// Package prefs holds the calculator preferences threaded through every
// reduction, approximation and serialization call.
//
// Preferences are passed by value and never read from global state.
package prefs

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// AngleUnit selects how trigonometric arguments are interpreted.
type AngleUnit int

const (
	Radian AngleUnit = iota
	Degree
	Gradian
)

var angleUnitNames = []string{"radian", "degree", "gradian"}

// String returns the configuration name of the unit.
func (u AngleUnit) String() string {
	if int(u) < len(angleUnitNames) {
		return angleUnitNames[u]
	}
	return fmt.Sprintf("AngleUnit(%d)", int(u))
}

// ParseAngleUnit maps a configuration name to an AngleUnit.
func ParseAngleUnit(s string) (AngleUnit, error) {
	for i, name := range angleUnitNames {
		if name == s {
			return AngleUnit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown angle unit %q", s)
}

// HalfTurn returns the measure of pi radians in this unit.
func (u AngleUnit) HalfTurn() float64 {
	switch u {
	case Degree:
		return 180
	case Gradian:
		return 200
	default:
		return math.Pi
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *AngleUnit) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseAngleUnit(n.Value)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (u AngleUnit) MarshalYAML() (any, error) { return u.String(), nil }

// FloatMode selects how approximate values are printed.
type FloatMode int

const (
	Decimal FloatMode = iota
	Scientific
)

var floatModeNames = []string{"decimal", "scientific"}

// String returns the configuration name of the mode.
func (m FloatMode) String() string {
	if int(m) < len(floatModeNames) {
		return floatModeNames[m]
	}
	return fmt.Sprintf("FloatMode(%d)", int(m))
}

// ParseFloatMode maps a configuration name to a FloatMode.
func ParseFloatMode(s string) (FloatMode, error) {
	for i, name := range floatModeNames {
		if name == s {
			return FloatMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown float mode %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *FloatMode) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseFloatMode(n.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m FloatMode) MarshalYAML() (any, error) { return m.String(), nil }

// Significant digit bounds. Doubles carry no more than 14 reliable digits
// on the device.
const (
	MinSignificantDigits     = 1
	MaxSignificantDigits     = 14
	DefaultSignificantDigits = 7
)

// Preferences is an immutable-per-call configuration snapshot.
type Preferences struct {
	AngleUnit         AngleUnit `yaml:"angle_unit"`
	FloatMode         FloatMode `yaml:"float_mode"`
	SignificantDigits int       `yaml:"significant_digits"`
}

// Default returns radians, decimal display and 7 significant digits.
func Default() Preferences {
	return Preferences{
		AngleUnit:         Radian,
		FloatMode:         Decimal,
		SignificantDigits: DefaultSignificantDigits,
	}
}

// WithAngleUnit returns a copy of p using unit.
func (p Preferences) WithAngleUnit(unit AngleUnit) Preferences {
	p.AngleUnit = unit
	return p
}

// WithFloatMode returns a copy of p using mode.
func (p Preferences) WithFloatMode(mode FloatMode) Preferences {
	p.FloatMode = mode
	return p
}

// WithSignificantDigits returns a copy of p printing n digits.
func (p Preferences) WithSignificantDigits(n int) Preferences {
	p.SignificantDigits = n
	return p
}
