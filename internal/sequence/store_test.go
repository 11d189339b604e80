package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAssignsNamesAndColors(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxSequences; i++ {
		seq, err := s.Add("n")
		require.NoError(t, err)
		assert.Equal(t, Names[i], seq.Name)
		assert.Equal(t, DefaultColors[i], seq.Color)
		assert.True(t, seq.Active)
	}

	_, err := s.Add("n")
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, MaxSequences, s.Len())
}

func TestStore_RemoveShiftsAndFreesName(t *testing.T) {
	s := NewStore()
	for _, def := range []string{"n", "2*n", "3*n"} {
		_, err := s.Add(def)
		require.NoError(t, err)
	}

	require.NoError(t, s.Remove("v"))
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "u", s.At(0).Name)
	assert.Equal(t, "w", s.At(1).Name)
	assert.Equal(t, "3*n", s.At(1).Definition)

	seq, err := s.Add("")
	require.NoError(t, err)
	assert.Equal(t, "v", seq.Name)
	assert.Equal(t, DefaultColors[1], seq.Color)
	assert.Equal(t, "v", s.At(2).Name, "new sequences are appended")

	assert.ErrorIs(t, s.Remove("z"), ErrNotFound)
}

func TestStore_Defined(t *testing.T) {
	s := NewStore()
	_, _ = s.Add("n")
	_, _ = s.Add("")
	_, _ = s.Add("n^2")
	require.NoError(t, s.SetActive("w", false))

	defined := s.Defined()
	require.Len(t, defined, 1)
	assert.Equal(t, "u", defined[0].Name)

	require.NoError(t, s.SetDefinition("v", "n+1"))
	got, ok := s.Lookup("v")
	require.True(t, ok)
	assert.Equal(t, "n+1", got.Definition)
	assert.ErrorIs(t, s.SetDefinition("z", "1"), ErrNotFound)
}

func TestStore_Checksum(t *testing.T) {
	s := NewStore()
	assert.Equal(t, uint32(0), s.Checksum())

	_, err := s.Add("n")
	require.NoError(t, err)
	one := s.Checksum()
	assert.NotEqual(t, uint32(0), one)

	_, err = s.Add("2*n")
	require.NoError(t, err)
	assert.NotEqual(t, one, s.Checksum())

	require.NoError(t, s.Remove("v"))
	assert.Equal(t, one, s.Checksum())

	require.NoError(t, s.SetActive("u", false))
	assert.NotEqual(t, one, s.Checksum())
}

func TestStore_AtOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { NewStore().At(0) })
}
