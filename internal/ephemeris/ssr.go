package ephemeris

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// OrbitCorrection is an SSR orbit correction message (spec.md §3): radial,
// along-track and cross-track position/rate deltas referenced to epoch0,
// matched onto a stored ephemeris by (PRN, IOD).
type OrbitCorrection struct {
	Sat    gnss.Sat
	IOD    int
	Epoch0 gnss.Epoch

	RadialM, AlongM, CrossM             float64
	RadialRateMS, AlongRateMS, CrossRateMS float64
}

// ClockCorrection is an SSR clock correction message (spec.md §3):
// polynomial coefficients (c0,c1,c2) referenced to epoch0, matched by
// (PRN, IOD).
type ClockCorrection struct {
	Sat    gnss.Sat
	IOD    int
	Epoch0 gnss.Epoch

	C0, C1, C2 float64// metres, m/s, m/s^2
}

// SSRAttachment bundles whatever corrections currently apply to one stored
// ephemeris entry. A new correction with the same IOD replaces any prior
// attachment of its own kind (spec.md §3).
type SSRAttachment struct {
	Orbit *OrbitCorrection
	Clock *ClockCorrection
}

// Apply folds the radial/along/cross orbit correction into pos and vel,
// and the clock polynomial into clk, at time t (spec.md §4.E). The
// along-track axis is velocity-aligned and cross-track completes a
// right-handed frame with radial, the IGS SSR convention.
func (a *SSRAttachment) Apply(pos, vel gnss.ECEF, clk float64, t gnss.Epoch) (gnss.ECEF, gnss.ECEF, float64) {
	if a.Orbit != nil {
		dt := t.Sub(a.Orbit.Epoch0)
		radial := a.Orbit.RadialM + a.Orbit.RadialRateMS*dt
		along := a.Orbit.AlongM + a.Orbit.AlongRateMS*dt
		cross := a.Orbit.CrossM + a.Orbit.CrossRateMS*dt

		eR := pos.Scale(1.0 / math.Max(pos.Norm(), 1e-9))
		rxv := gnss.ECEF{
			X: pos.Y*vel.Z - pos.Z*vel.Y,
			Y: pos.Z*vel.X - pos.X*vel.Z,
			Z: pos.X*vel.Y - pos.Y*vel.X,
		}
		eC := rxv.Scale(1.0 / math.Max(rxv.Norm(), 1e-9))
		eA := gnss.ECEF{
			X: eC.Y*eR.Z - eC.Z*eR.Y,
			Y: eC.Z*eR.X - eC.X*eR.Z,
			Z: eC.X*eR.Y - eC.Y*eR.X,
		}

		delta := gnss.ECEF{
			X: radial*eR.X + along*eA.X + cross*eC.X,
			Y: radial*eR.Y + along*eA.Y + cross*eC.Y,
			Z: radial*eR.Z + along*eA.Z + cross*eC.Z,
		}
		pos = pos.Add(delta)

		deltaRate := gnss.ECEF{
			X: a.Orbit.RadialRateMS*eR.X + a.Orbit.AlongRateMS*eA.X + a.Orbit.CrossRateMS*eC.X,
			Y: a.Orbit.RadialRateMS*eR.Y + a.Orbit.AlongRateMS*eA.Y + a.Orbit.CrossRateMS*eC.Y,
			Z: a.Orbit.RadialRateMS*eR.Z + a.Orbit.AlongRateMS*eA.Z + a.Orbit.CrossRateMS*eC.Z,
		}
		vel = vel.Add(deltaRate)
	}

	if a.Clock != nil {
		dt := t.Sub(a.Clock.Epoch0)
		clk += (a.Clock.C0 + a.Clock.C1*dt + a.Clock.C2*dt*dt) / gnss.SpeedOfLight
	}

	return pos, vel, clk
}

// CodeBias is a satellite's table of per-signal code biases (spec.md §3):
// overwritten wholesale by the most recent message for that PRN.
type CodeBias struct {
	Sat    gnss.Sat
	Biases map[string]float64 // signal-code string ("1C","2W",...) -> metres
}
