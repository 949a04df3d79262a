// 指示: miu200521358
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	body := "rig:\n  align: lattice\n  root_placement: bottom\n  base_bone_length: 0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("MU_LATTICE_RIG_RIG_DEFORM_PREFIX", "DEFX")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "lattice", cfg.Rig.Align)
	assert.Equal(t, "bottom", cfg.Rig.RootPlacement)
	assert.InDelta(t, 0.5, cfg.Rig.BaseBoneLength, 1e-9)
	assert.Equal(t, "DEFX", cfg.Rig.DeformPrefix)
	assert.True(t, cfg.Rig.PropagateRootScale)
}

func TestLoadRejectsInvalidEnum(t *testing.T) {
	v := NewViper()
	v.Set("rig.reentry", "overwrite")
	_, err := Load(v, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rig.reentry")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
