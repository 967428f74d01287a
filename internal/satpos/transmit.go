package satpos

import (
	"errors"
	"math"

	"github.com/fxbgnss/pppengine/internal/ephemeris"
	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrNotConverged is returned by ResolveTransmission when the satellite
// clock iteration does not settle within the iteration budget (spec.md
// §4.G).
var ErrNotConverged = errors.New("satpos: transmission time did not converge")

const maxTransmitIter = 10
const convergeMC = 1e-4 // metres-equivalent clock convergence threshold

// Transmission is the resolved satellite state at transmission time: ECEF
// position, velocity, and clock offset expressed in metres (multiplied by
// c), as spec.md §4.G requires for downstream use. Healthy carries forward
// the State.Healthy flag from the final evaluation (spec.md §4.E).
type Transmission struct {
	Sat       gnss.Sat
	TimeOfTx  gnss.Epoch
	PosECEF   gnss.ECEF
	VelECEF   gnss.ECEF
	ClockM    float64
	Healthy   bool
}

// ResolveTransmission iterates ToT = t_rx - P3/c - clkSat, re-evaluating the
// satellite's state at each trial time, until the clock estimate's metre-
// equivalent change falls under 1e-4 m or the iteration budget (10) is
// exhausted (spec.md §4.G). applySSR is forwarded to the evaluator so the
// caller controls whether SSR corrections are folded in.
func ResolveTransmission(store *ephemeris.Store, sat gnss.Sat, rxTime gnss.Epoch, p3 float64, applySSR bool) (Transmission, error) {
	clkSat := 0.0
	var st State
	for i := 0; i < maxTransmitIter; i++ {
		tot := rxTime.Add(-p3/gnss.SpeedOfLight - clkSat)
		var err error
		st, err = Evaluate(store, sat, tot, applySSR)
		if err != nil {
			return Transmission{}, err
		}
		delta := st.ClockSec - clkSat
		clkSat = st.ClockSec
		if math.Abs(delta)*gnss.SpeedOfLight < convergeMC {
			return Transmission{
				Sat:      sat,
				TimeOfTx: tot,
				PosECEF:  st.Pos,
				VelECEF:  st.Vel,
				ClockM:   clkSat * gnss.SpeedOfLight,
				Healthy:  st.Healthy,
			}, nil
		}
	}
	return Transmission{}, ErrNotConverged
}
