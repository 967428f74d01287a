package kalman

import (
	"testing"

	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
	"github.com/stretchr/testify/require"
)

func makeObs(sat gnss.Sat, recv, satPos gnss.ECEF, clockM float64, el float64) obsmodel.SatData {
	rho, _ := gnss.GeoDist(satPos, recv)
	return obsmodel.SatData{
		Sat:       sat,
		P3:        rho - clockM,
		L3:        rho - clockM,
		SatPos:    satPos,
		ClockM:    clockM,
		Elevation: el,
	}
}

func TestFilter_InsufficientSatellites(t *testing.T) {
	recv := gnss.ECEF{X: 6378137, Y: 0, Z: 0}
	f := NewFilter(DefaultOptions(), recv)
	obs := []obsmodel.SatData{
		makeObs(gnss.Sat{Sys: gnss.SystemGPS, PRN: 1}, recv, gnss.ECEF{X: 2.6e7, Y: 0, Z: 0}, 0, 1.2),
	}
	_, err := f.Update(gnss.Epoch{Sec: 100}, obs, nil)
	require.ErrorIs(t, err, ErrInsufficientSatellites)
}

func TestFilter_UpdateConvergesTowardTruth(t *testing.T) {
	truth := gnss.ECEF{X: 6378137, Y: 100, Z: 200}
	guess := gnss.ECEF{X: 6378137, Y: 0, Z: 0}
	f := NewFilter(DefaultOptions(), guess)

	sats := []gnss.ECEF{
		{X: 2.0e7, Y: 1.0e7, Z: 1.0e7},
		{X: 2.0e7, Y: -1.0e7, Z: 1.0e7},
		{X: 2.0e7, Y: 1.0e7, Z: -1.0e7},
		{X: -2.0e7, Y: 1.0e7, Z: 1.0e7},
		{X: -2.0e7, Y: -1.0e7, Z: -1.0e7},
	}

	var lastErr error
	for epoch := 0; epoch < 5; epoch++ {
		obs := make([]obsmodel.SatData, 0, len(sats))
		for i, sp := range sats {
			sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: i + 1}
			obs = append(obs, makeObs(sat, truth, sp, 0, 1.0))
		}
		_, lastErr = f.Update(gnss.Epoch{Sec: int64(100 + epoch)}, obs, nil)
		require.NoError(t, lastErr)
	}

	pos := f.Position()
	require.InDelta(t, truth.X, pos.X, 50.0)
	require.InDelta(t, truth.Y, pos.Y, 50.0)
	require.InDelta(t, truth.Z, pos.Z, 50.0)
}

func TestFilter_SlipResetsAmbiguity(t *testing.T) {
	recv := gnss.ECEF{X: 6378137, Y: 0, Z: 0}
	f := NewFilter(DefaultOptions(), recv)
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 5}
	satPos := gnss.ECEF{X: 2.0e7, Y: 1.0e7, Z: 1.0e7}

	sd := makeObs(sat, recv, satPos, 0, 1.0)
	require.True(t, f.slipped(sd))
	f.applySlip(sat, sd)
	require.False(t, f.slipped(sd))

	sd.Slip1 = true
	require.True(t, f.slipped(sd))
}
