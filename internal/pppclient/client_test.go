package pppclient

import (
	"testing"

	"github.com/fxbgnss/pppengine/internal/config"
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
	"github.com/stretchr/testify/require"
)

func TestProcessEpoch_InsufficientObservationsReportsError(t *testing.T) {
	c := NewClient(config.Default(), gnss.ECEF{X: 6378137, Y: 0, Z: 0}, nil)
	out := c.ProcessEpoch(nil)
	require.True(t, out.Error)
}

func TestProcessEpoch_DropsUnconditionableObservation(t *testing.T) {
	c := NewClient(config.Default(), gnss.ECEF{X: 6378137, Y: 0, Z: 0}, nil)
	raw := obsmodel.RawObservation{
		Sat:  gnss.Sat{Sys: gnss.SystemGPS, PRN: 1},
		Time: gnss.Epoch{Sec: 1000},
		Frequencies: []obsmodel.FrequencyObs{
			{Code: "1C", Pseudorange: 2.1e7, PhaseCycles: 1.1e8, CodeValid: true, PhaseValid: true},
		},
	}
	out := c.ProcessEpoch([]obsmodel.RawObservation{raw})
	require.True(t, out.Error)
	require.NotEmpty(t, out.Log)
}

func TestReset_RestoresOrigin(t *testing.T) {
	origin := gnss.ECEF{X: 6378137, Y: 0, Z: 0}
	c := NewClient(config.Default(), origin, nil)
	c.Reset()
	pos := c.filter.Position()
	require.InDelta(t, origin.X, pos.X, 1e-6)
}
