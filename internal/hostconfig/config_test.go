package hostconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "probevm.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	path := writeTemp(t, `
[Execution]
StepBudget = 500

[Logging]
Level = "debug"
Color = "never"

[Cache]
Capacity = 16
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(500), cfg.Execution.StepBudget)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "never", cfg.Logging.Color)
	require.Equal(t, 16, cfg.Cache.Capacity)
}

func TestLoadKeepsDefaultsForAbsentTables(t *testing.T) {
	path := writeTemp(t, `
[Cache]
Capacity = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Execution.StepBudget, cfg.Execution.StepBudget)
	require.Equal(t, Default().Logging.Level, cfg.Logging.Level)
	require.Equal(t, 4, cfg.Cache.Capacity)
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	path := writeTemp(t, `
[Logging]
Level = "verbose"
`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
