// Package ephemeris implements the broadcast-ephemeris store: the tagged
// record variant of spec.md §3/§4.D, a bounded per-PRN FIFO with the
// radius/age/consistency checks of check_ephemeris, and the SSR orbit/clock
// correction and code-bias attachments of §3/§4.I. Grounded on ephemeris.go
// (Eph2Pos, GEph2Pos, SelEph) in the teacher repo.
package ephemeris

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// Kepler propagation constants, taken verbatim from ephemeris.go's ICD/ref
// tables (GPS ref [1], Galileo ref [7], BeiDou ref [9]).
const (
	muGPS = 3.9860050e14
	muGAL = 3.986004418e14
	muCMP = 3.986004418e14

	omegeGAL = 7.2921151467e-5
	omegeCMP = 7.292115e-5

	rtolKepler    = 1e-13
	maxIterKepler = 30
)

// keplerParams selects the gravitational constant and earth rotation rate
// for the constellations that share the Keplerian broadcast orbit model
// (GPS, Galileo, BeiDou, QZSS, IRNSS); QZSS and IRNSS use the GPS values.
func keplerParams(sys gnss.System) (mu, omge float64) {
	switch sys {
	case gnss.SystemGAL:
		return muGAL, omegeGAL
	case gnss.SystemBDS:
		return muCMP, omegeCMP
	default:
		return muGPS, gnss.EarthRotationRate
	}
}

// KeplerEph is a broadcast ephemeris for the GPS/Galileo/BeiDou/QZSS/IRNSS
// family: all share the same Keplerian orbit model with constellation-
// specific gravitational and rotation constants (Eph2Pos, ephemeris.go).
type KeplerEph struct {
	Sat  gnss.Sat
	Toe  gnss.Epoch
	Toc  gnss.Epoch
	Toes float64 // seconds of week at Toe, for earth-rotation correction
	Iode int
	Iodc int
	Health int // 0 = healthy
	Sva  int   // URA index, for variance only

	A, E, I0, OMG0, Omg, M0, Deln, OMGd, Idot float64
	Crc, Crs, Cuc, Cus, Cic, Cis              float64
	F0, F1, F2                                float64

	ssr *SSRAttachment
}

func (e *KeplerEph) id() gnss.Sat   { return e.Sat }
func (e *KeplerEph) iode() int      { return e.Iode }
func (e *KeplerEph) toc() gnss.Epoch { return e.Toc }
func (e *KeplerEph) healthy() bool  { return e.Health == 0 }

func (e *KeplerEph) isNewerThan(other Eph) bool {
	o, ok := other.(*KeplerEph)
	if !ok {
		return true
	}
	if e.Toe.Sub(o.Toe) != 0 {
		return e.Toe.Sub(o.Toe) > 0
	}
	return e.Iode > o.Iode
}

func (e *KeplerEph) attach(ssr *SSRAttachment) { e.ssr = ssr }
func (e *KeplerEph) attachment() *SSRAttachment { return e.ssr }

// orbitPositionAt is the Kepler propagation core of Eph2Pos, including the
// BeiDou GEO satellite's extra earth-rotation frame transform (ref [9]
// table 4-1). It returns position only, so positionAt can call it twice at
// nearby offsets to estimate velocity without recursing into the clock
// and SSR handling.
func (e *KeplerEph) orbitPositionAt(tk float64) (gnss.ECEF, error) {
	mu, omge := keplerParams(e.Sat.Sys)

	M := e.M0 + (math.Sqrt(mu/(e.A*e.A*e.A))+e.Deln)*tk
	E := M
	var n int
	for n = 0; n < maxIterKepler; n++ {
		Ek := E
		E -= (E - e.E*math.Sin(E) - M) / (1.0 - e.E*math.Cos(E))
		if math.Abs(E-Ek) <= rtolKepler {
			break
		}
	}
	if n >= maxIterKepler {
		return gnss.ECEF{}, ErrNoEphemeris
	}
	sinE, cosE := math.Sin(E), math.Cos(E)

	u := math.Atan2(math.Sqrt(1.0-e.E*e.E)*sinE, cosE-e.E) + e.Omg
	r := e.A * (1.0 - e.E*cosE)
	i := e.I0 + e.Idot*tk
	sin2u, cos2u := math.Sin(2.0*u), math.Cos(2.0*u)
	u += e.Cus*sin2u + e.Cuc*cos2u
	r += e.Crs*sin2u + e.Crc*cos2u
	i += e.Cis*sin2u + e.Cic*cos2u
	x := r * math.Cos(u)
	y := r * math.Sin(u)
	cosi := math.Cos(i)

	if e.Sat.Sys == gnss.SystemBDS && (e.Sat.PRN <= 5 || e.Sat.PRN >= 59) {
		const sin5, cos5 = -0.0871557427476582, 0.9961946980917456 // -5 deg
		O := e.OMG0 + e.OMGd*tk - omge*e.Toes
		sinO, cosO := math.Sin(O), math.Cos(O)
		xg := x*cosO - y*cosi*sinO
		yg := x*sinO + y*cosi*cosO
		zg := y * math.Sin(i)
		sino, coso := math.Sin(omge*tk), math.Cos(omge*tk)
		return gnss.ECEF{
			X: xg*coso + yg*sino*cos5 + zg*sino*sin5,
			Y: -xg*sino + yg*coso*cos5 + zg*coso*sin5,
			Z: -yg*sin5 + zg*cos5,
		}, nil
	}
	O := e.OMG0 + (e.OMGd-omge)*tk - omge*e.Toes
	sinO, cosO := math.Sin(O), math.Cos(O)
	return gnss.ECEF{
		X: x*cosO - y*cosi*sinO,
		Y: x*sinO + y*cosi*cosO,
		Z: y * math.Sin(i),
	}, nil
}

// positionAt computes position, a numerically differentiated velocity, and
// clock bias (with relativity correction), optionally folding in the
// attached SSR correction (spec.md §4.E).
func (e *KeplerEph) positionAt(t gnss.Epoch, applySSR bool) (gnss.ECEF, gnss.ECEF, float64, error) {
	mu, _ := keplerParams(e.Sat.Sys)
	tk := t.Sub(e.Toe)

	pos, err := e.orbitPositionAt(tk)
	if err != nil {
		return gnss.ECEF{}, gnss.ECEF{}, 0, err
	}

	const dt = 1.0
	p1, err1 := e.orbitPositionAt(tk + dt)
	p0, err0 := e.orbitPositionAt(tk - dt)
	var vel gnss.ECEF
	if err0 == nil && err1 == nil {
		vel = gnss.ECEF{
			X: (p1.X - p0.X) / (2 * dt),
			Y: (p1.Y - p0.Y) / (2 * dt),
			Z: (p1.Z - p0.Z) / (2 * dt),
		}
	}

	E := keplerEccentricAnomaly(e, tk)
	tc := t.Sub(e.Toc)
	clk := e.F0 + e.F1*tc + e.F2*tc*tc
	clk -= 2.0 * math.Sqrt(mu*e.A) * e.E * math.Sin(E) / (gnss.SpeedOfLight * gnss.SpeedOfLight)

	if applySSR && e.ssr != nil {
		pos, vel, clk = e.ssr.Apply(pos, vel, clk, t)
	}
	return pos, vel, clk, nil
}

// keplerEccentricAnomaly re-solves Kepler's equation for the relativity
// correction term, mirroring Eph2Pos's reuse of sinE at tk (not tk±dt).
func keplerEccentricAnomaly(e *KeplerEph, tk float64) float64 {
	mu, _ := keplerParams(e.Sat.Sys)
	M := e.M0 + (math.Sqrt(mu/(e.A*e.A*e.A))+e.Deln)*tk
	E := M
	for n := 0; n < maxIterKepler; n++ {
		Ek := E
		E -= (E - e.E*math.Sin(E) - M) / (1.0 - e.E*math.Cos(E))
		if math.Abs(E-Ek) <= rtolKepler {
			break
		}
	}
	return E
}
