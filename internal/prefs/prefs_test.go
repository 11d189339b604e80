package prefs

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault tests the factory defaults.
func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, Radian, p.AngleUnit)
	assert.Equal(t, Decimal, p.FloatMode)
	assert.Equal(t, 7, p.SignificantDigits)
}

// TestPreferences_WithersCopy tests that withers do not mutate the receiver.
func TestPreferences_WithersCopy(t *testing.T) {
	p := Default()
	q := p.WithAngleUnit(Degree).WithFloatMode(Scientific).WithSignificantDigits(3)

	assert.Equal(t, Radian, p.AngleUnit)
	assert.Equal(t, Degree, q.AngleUnit)
	assert.Equal(t, Scientific, q.FloatMode)
	assert.Equal(t, 3, q.SignificantDigits)
}

// TestAngleUnit_HalfTurn tests unit conversion constants.
func TestAngleUnit_HalfTurn(t *testing.T) {
	assert.Equal(t, math.Pi, Radian.HalfTurn())
	assert.Equal(t, 180.0, Degree.HalfTurn())
	assert.Equal(t, 200.0, Gradian.HalfTurn())
}

// TestParseEnums tests name round trips.
func TestParseEnums(t *testing.T) {
	for _, u := range []AngleUnit{Radian, Degree, Gradian} {
		got, err := ParseAngleUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
	_, err := ParseAngleUnit("turn")
	assert.Error(t, err)

	m, err := ParseFloatMode("scientific")
	require.NoError(t, err)
	assert.Equal(t, Scientific, m)
}

// TestParse_Valid tests decoding a full preferences document.
func TestParse_Valid(t *testing.T) {
	p, err := Parse([]byte("angle_unit: degree\nfloat_mode: scientific\nsignificant_digits: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, Degree, p.AngleUnit)
	assert.Equal(t, Scientific, p.FloatMode)
	assert.Equal(t, 10, p.SignificantDigits)
}

// TestParse_PartialKeepsDefaults tests that missing keys keep defaults.
func TestParse_PartialKeepsDefaults(t *testing.T) {
	p, err := Parse([]byte("angle_unit: gradian\n"))
	require.NoError(t, err)
	assert.Equal(t, Gradian, p.AngleUnit)
	assert.Equal(t, DefaultSignificantDigits, p.SignificantDigits)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), empty)
}

// TestParse_SchemaViolations tests CUE schema rejections.
func TestParse_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"digits too large": "significant_digits: 20\n",
		"digits too small": "significant_digits: 0\n",
		"unknown unit":     "angle_unit: turn\n",
		"unknown field":    "precision: 3\n",
		"wrong type":       "significant_digits: seven\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

// TestLoad tests reading preferences from disk.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("float_mode: scientific\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Scientific, p.FloatMode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
