package calculation

import (
	"fmt"

	"github.com/roach88/graphcalc/internal/ir"
	"github.com/roach88/graphcalc/internal/prefs"
)

// PreferencesRecord returns the stored form of p.
func PreferencesRecord(p prefs.Preferences) ir.IRObject {
	return ir.IRObject{
		"angle_unit":         ir.IRString(p.AngleUnit.String()),
		"float_mode":         ir.IRString(p.FloatMode.String()),
		"significant_digits": ir.IRInt(p.SignificantDigits),
	}
}

// PreferencesFromRecord decodes a stored preferences object. Missing keys
// keep their defaults.
func PreferencesFromRecord(obj ir.IRObject) (prefs.Preferences, error) {
	p := prefs.Default()
	if s := obj.String("angle_unit"); s != "" {
		unit, err := prefs.ParseAngleUnit(s)
		if err != nil {
			return prefs.Preferences{}, err
		}
		p.AngleUnit = unit
	}
	if s := obj.String("float_mode"); s != "" {
		mode, err := prefs.ParseFloatMode(s)
		if err != nil {
			return prefs.Preferences{}, err
		}
		p.FloatMode = mode
	}
	if _, ok := obj["significant_digits"]; ok {
		n := int(obj.Int("significant_digits"))
		if n < prefs.MinSignificantDigits || n > prefs.MaxSignificantDigits {
			return prefs.Preferences{}, fmt.Errorf("significant_digits %d out of range [%d, %d]",
				n, prefs.MinSignificantDigits, prefs.MaxSignificantDigits)
		}
		p.SignificantDigits = n
	}
	return p, nil
}
