// Package satpos is the satellite state evaluator of spec.md §4.E: given a
// PRN and time, it tries the ephemeris store's latest entry then its
// previous one, returning ECEF position, velocity and clock offset with
// any attached SSR correction folded in when requested. Grounded on
// (nav *Nav) SatPos / EphPos in ephemeris.go, generalized from the
// teacher's single-Nav-struct lookup to the store's last/prev pair.
package satpos

import (
	"errors"

	"github.com/fxbgnss/pppengine/internal/ephemeris"
	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrNoEphemeris is returned when neither the store's latest nor previous
// ephemeris for the PRN exists or converges (spec.md §4.E).
var ErrNoEphemeris = ephemeris.ErrNoEphemeris

// State is a satellite's computed position, velocity and clock offset at
// one evaluation time. Healthy is false only when the state was computed
// from the store's latest entry and that entry is stored unhealthy
// (spec.md §4.D); the previous entry is not tried in that case. A state
// computed from the previous entry always reports Healthy true, without
// consulting that entry's stored status. Callers can use Healthy to drop
// the satellite before it reaches the filter (spec.md §4.E/§4.I).
type State struct {
	Sat      gnss.Sat
	Pos      gnss.ECEF
	Vel      gnss.ECEF
	ClockSec float64
	Healthy  bool
}

// Evaluate returns sat's state at t, trying the store's latest ephemeris
// then its previous one (spec.md §4.E). applySSR controls whether an
// attached SSR correction is folded into the result. The latest entry is
// still used even when its stored status is unhealthy (spec.md §4.D keeps
// unhealthy entries in the FIFO rather than discarding them), but
// State.Healthy is cleared so the caller can see and act on it.
func Evaluate(store *ephemeris.Store, sat gnss.Sat, t gnss.Epoch, applySSR bool) (State, error) {
	if eph, ok := store.Last(sat); ok {
		if pos, vel, clk, err := eph.PositionAt(t, applySSR); err == nil {
			status, _ := store.LastStatus(sat)
			return State{Sat: sat, Pos: pos, Vel: vel, ClockSec: clk, Healthy: status != ephemeris.StatusUnhealthy}, nil
		}
	}
	if eph, ok := store.Prev(sat); ok {
		if pos, vel, clk, err := eph.PositionAt(t, applySSR); err == nil {
			return State{Sat: sat, Pos: pos, Vel: vel, ClockSec: clk, Healthy: true}, nil
		}
	}
	return State{}, errors.Join(ErrNoEphemeris, errNotFound(sat))
}

func errNotFound(sat gnss.Sat) error {
	return errNoEphFor{sat}
}

type errNoEphFor struct{ sat gnss.Sat }

func (e errNoEphFor) Error() string { return "satpos: no usable ephemeris for " + e.sat.String() }
