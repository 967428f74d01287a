package ephemeris

import (
	"testing"

	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/stretchr/testify/require"
)

func gpsLikeEph(sat gnss.Sat, toe gnss.Epoch) *KeplerEph {
	return &KeplerEph{
		Sat:  sat,
		Toe:  toe,
		Toc:  toe,
		A:    26560000.0, // ~GPS semi-major axis
		E:    0.01,
		I0:   0.95,
		OMG0: 1.2,
		Omg:  0.5,
		M0:   0.1,
		Deln: 0,
		OMGd: 0,
		Idot: 0,
	}
}

func TestKeplerEph_RadiusWithinBounds(t *testing.T) {
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 12}
	toe := gnss.Epoch{Sec: 100000}
	eph := gpsLikeEph(sat, toe)

	pos, _, _, err := eph.PositionAt(toe, false)
	require.NoError(t, err)
	r := pos.Norm()
	require.GreaterOrEqual(t, r, minRadiusM)
	require.LessOrEqual(t, r, maxRadiusM)
}

func TestStore_PutRejectsStaleOrBad(t *testing.T) {
	nowEpoch := gnss.Epoch{Sec: 100000}
	store := NewStore(func() gnss.Epoch { return nowEpoch })

	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 5}
	fresh := gpsLikeEph(sat, nowEpoch)
	status := store.Put(fresh, true)
	require.Equal(t, StatusOK, status)

	_, ok := store.Last(sat)
	require.True(t, ok)

	stale := gpsLikeEph(sat, gnss.Epoch{})
	status = store.Put(stale, true)
	require.Equal(t, StatusOutdated, status)

	last, _ := store.Last(sat)
	require.Same(t, fresh, last)
}

func TestStore_CapacityBounded(t *testing.T) {
	nowEpoch := gnss.Epoch{Sec: 0}
	store := NewStore(func() gnss.Epoch { return nowEpoch })
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 9}

	for i := 0; i < capacity+3; i++ {
		nowEpoch = gnss.Epoch{Sec: int64(i) * 600}
		eph := gpsLikeEph(sat, nowEpoch)
		store.Put(eph, false)
	}
	store.mu.Lock()
	n := len(store.byPRN[sat.Num()])
	store.mu.Unlock()
	require.Equal(t, capacity, n)
}

func TestStore_AttachOrbitCorrectionByIOD(t *testing.T) {
	nowEpoch := gnss.Epoch{Sec: 0}
	store := NewStore(func() gnss.Epoch { return nowEpoch })
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 3}
	eph := gpsLikeEph(sat, nowEpoch)
	eph.Iode = 42
	store.Put(eph, false)

	corr := OrbitCorrection{Sat: sat, IOD: 42, RadialM: 1.0}
	ok := store.AttachOrbitCorrection(corr)
	require.True(t, ok)

	last, _ := store.Last(sat)
	require.NotNil(t, last.attachment())
	require.Equal(t, 1.0, last.attachment().Orbit.RadialM)
}

func TestStore_ConsistentSuccessorPromotesPriorEntry(t *testing.T) {
	nowEpoch := gnss.Epoch{Sec: 0}
	store := NewStore(func() gnss.Epoch { return nowEpoch })
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 7}

	unhealthy := gpsLikeEph(sat, nowEpoch)
	unhealthy.Health = 1
	status := store.Put(unhealthy, true)
	require.Equal(t, StatusUnhealthy, status)
	last, ok := store.LastStatus(sat)
	require.True(t, ok)
	require.Equal(t, StatusUnhealthy, last)

	// A healthy successor just 0.1s later orbits to nearly the same point,
	// well under the 1km consistency threshold, so it should check out ok
	// and promote the unhealthy entry ahead of it.
	consistent := gpsLikeEph(sat, gnss.Epoch{Sec: 0, Frac: 0.1})
	status = store.Put(consistent, true)
	require.Equal(t, StatusOK, status)

	store.mu.Lock()
	queue := store.byPRN[sat.Num()]
	require.Len(t, queue, 2)
	require.Equal(t, StatusOK, queue[0].status) // the prior unhealthy entry, promoted
	require.Equal(t, StatusOK, queue[1].status)
	store.mu.Unlock()
}
