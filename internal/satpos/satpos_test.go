package satpos

import (
	"testing"

	"github.com/fxbgnss/pppengine/internal/ephemeris"
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/stretchr/testify/require"
)

func testStoreWithEph(t *testing.T, sat gnss.Sat, toe gnss.Epoch) *ephemeris.Store {
	t.Helper()
	store := ephemeris.NewStore(func() gnss.Epoch { return toe })
	eph := &ephemeris.KeplerEph{
		Sat: sat, Toe: toe, Toc: toe,
		A: 26560000.0, E: 0.01, I0: 0.95, OMG0: 1.2, Omg: 0.5, M0: 0.1,
	}
	status := store.Put(eph, true)
	require.Equal(t, ephemeris.StatusOK, status)
	return store
}

func TestEvaluate_UsesLatestEphemeris(t *testing.T) {
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 7}
	toe := gnss.Epoch{Sec: 200000}
	store := testStoreWithEph(t, sat, toe)

	st, err := Evaluate(store, sat, toe, false)
	require.NoError(t, err)
	require.InDelta(t, 2.5e7, st.Pos.Norm(), 1e7)
}

func TestEvaluate_NoEphemeris(t *testing.T) {
	store := ephemeris.NewStore(func() gnss.Epoch { return gnss.Epoch{} })
	_, err := Evaluate(store, gnss.Sat{Sys: gnss.SystemGPS, PRN: 1}, gnss.Epoch{}, false)
	require.ErrorIs(t, err, ErrNoEphemeris)
}

func TestEvaluate_FlagsUnhealthyLatest(t *testing.T) {
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 22}
	toe := gnss.Epoch{Sec: 200000}
	store := ephemeris.NewStore(func() gnss.Epoch { return toe })
	eph := &ephemeris.KeplerEph{
		Sat: sat, Toe: toe, Toc: toe,
		A: 26560000.0, E: 0.01, I0: 0.95, OMG0: 1.2, Omg: 0.5, M0: 0.1,
		Health: 1,
	}
	status := store.Put(eph, true)
	require.Equal(t, ephemeris.StatusUnhealthy, status)

	st, err := Evaluate(store, sat, toe, false)
	require.NoError(t, err)
	require.False(t, st.Healthy)
}

func TestResolveTransmission_Converges(t *testing.T) {
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 14}
	toe := gnss.Epoch{Sec: 300000}
	store := testStoreWithEph(t, sat, toe)

	tx, err := ResolveTransmission(store, sat, toe, 2.2e7, false)
	require.NoError(t, err)
	require.Equal(t, sat, tx.Sat)
	require.NotZero(t, tx.PosECEF.Norm())
}
