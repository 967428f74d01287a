package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_obs: 6\nmin_ele: 15\n"), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 6, o.MinObs)
	require.InDelta(t, 15.0, o.MinEleDeg, 1e-9)
	require.Equal(t, Default().SigmaC1, o.SigmaC1)
}

func TestToKalmanOptions_RoundTripsElevation(t *testing.T) {
	o := Default()
	o.MinEleDeg = 10
	k := o.ToKalmanOptions()
	require.InDelta(t, 0.174533, k.MinElevRad, 1e-5)
}
