package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/store"
)

// seedDatabase records inputs in session through the eval command.
func seedDatabase(t *testing.T, dbPath, session string, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		_, err := execute(t, "eval", in, "--db", dbPath, "--session", session)
		require.NoError(t, err, "eval %q", in)
	}
}

func TestHistoryMissingDatabaseFlag(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestHistoryEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calc.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestHistoryListsSessions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calc.db")
	seedDatabase(t, dbPath, "s1", "1+1", "rem(10,3)")
	seedDatabase(t, dbPath, "s2", "1/3")

	out, err := execute(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Sessions, 2)
	assert.Equal(t, "s1", resp.Data.Sessions[0].ID)
	assert.Equal(t, 2, resp.Data.Sessions[0].Calculations)
	assert.NotZero(t, resp.Data.Sessions[0].Checksum)
	assert.Equal(t, "s2", resp.Data.Sessions[1].ID)
	assert.Equal(t, 1, resp.Data.Sessions[1].Calculations)

	out, err = execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "s1  2 calculation(s)")
	assert.Contains(t, out, "s2  1 calculation(s)")
}

func TestHistoryOfSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calc.db")
	seedDatabase(t, dbPath, "s1", "1+1", "1/3")

	out, err := execute(t, "history", "--db", dbPath, "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session s1: 2 calculation(s)")
	assert.Contains(t, out, "   1  1+1 = 2 ≈ 2\n")
	assert.Contains(t, out, "   2  1/3 = 1/3 ≈ 0.3333333\n")
}

func TestHistoryUnknownSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calc.db")
	seedDatabase(t, dbPath, "s1", "1+1")

	_, err := execute(t, "history", "--db", dbPath, "--session", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found")
}
