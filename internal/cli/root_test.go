package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
	"github.com/roach88/graphcalc/internal/testutil"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "graphcalc", cmd.Use)
	assert.Contains(t, cmd.Long, "exact arithmetic")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"eval", "layout", "sequence", "regression", "history", "replay", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)

	poolFlag := cmd.PersistentFlags().Lookup("pool-size")
	require.NotNil(t, poolFlag)
	assert.Equal(t, strconv.Itoa(pool.DefaultCapacity), poolFlag.DefValue)
}

func TestDatabaseFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"history", "replay"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			dbFlag := sub.Flags().Lookup("db")
			require.NotNil(t, dbFlag)
			// --db is required, so default is empty
			assert.Equal(t, "", dbFlag.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "eval", "1+1", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidPoolSize(t *testing.T) {
	_, err := execute(t, "eval", "1+1", "--pool-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pool size")
}

func TestRootOptions_Preferences(t *testing.T) {
	opts := &RootOptions{}
	p, err := opts.Preferences()
	require.NoError(t, err)
	assert.Equal(t, prefs.Default(), p)

	opts.Config = writeConfig(t, "angle_unit: degree\nsignificant_digits: 3\n")
	p, err = opts.Preferences()
	require.NoError(t, err)
	assert.Equal(t, prefs.Degree, p.AngleUnit)
	assert.Equal(t, 3, p.SignificantDigits)

	opts.Config = writeConfig(t, "significant_digits: 99\n")
	_, err = opts.Preferences()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootOptions_Capacity(t *testing.T) {
	assert.Equal(t, pool.DefaultCapacity, (&RootOptions{}).Capacity())
	assert.Equal(t, 4096, (&RootOptions{PoolSize: 4096}).Capacity())
	assert.Equal(t, 4096, (&RootOptions{PoolSize: 4096}).Arena(testutil.DiscardLogger()).Capacity())
}
