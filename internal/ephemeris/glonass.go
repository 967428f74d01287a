package ephemeris

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// GLONASS orbit-integration constants, taken verbatim from Deq/Glorbit in
// ephemeris.go (ref [2] A.3.1.2, with the documented xdot[4]/xdot[5] bug
// fix already applied).
const (
	reGLO   = 6378136.0
	muGLO   = 3.9860044e14
	j2GLO   = 1.0826257e-3
	omgeGLO = 7.292115e-5
	tstep   = 60.0
)

// GlonassEph is a GLONASS broadcast ephemeris: position, velocity and
// luni-solar acceleration at Toe, propagated by 4th-order Runge-Kutta
// numerical integration rather than a closed-form orbit (Glorbit,
// ephemeris.go), since GLONASS broadcasts the state vector directly.
type GlonassEph struct {
	Sat    gnss.Sat
	Toe    gnss.Epoch
	Freq   int // FDMA channel number k, -7..6
	Health int // 0 = healthy

	Pos, Vel, Acc [3]float64
	Taun, Gamn    float64

	ssr *SSRAttachment
}

func (g *GlonassEph) id() gnss.Sat    { return g.Sat }
func (g *GlonassEph) iode() int       { return int(g.Toe.Seconds()) } // GLONASS has no IODE; Toe doubles as the tag
func (g *GlonassEph) toc() gnss.Epoch { return g.Toe }
func (g *GlonassEph) healthy() bool   { return g.Health == 0 }

func (g *GlonassEph) isNewerThan(other Eph) bool {
	o, ok := other.(*GlonassEph)
	if !ok {
		return true
	}
	return g.Toe.Sub(o.Toe) > 0
}

func (g *GlonassEph) attach(ssr *SSRAttachment)  { g.ssr = ssr }
func (g *GlonassEph) attachment() *SSRAttachment { return g.ssr }

// glonassDeriv is the GLONASS orbit differential equation (Deq,
// ephemeris.go): state is [x,y,z,vx,vy,vz], acc is luni-solar acceleration.
func glonassDeriv(x [6]float64, acc [3]float64) [6]float64 {
	r2 := x[0]*x[0] + x[1]*x[1] + x[2]*x[2]
	if r2 <= 0 {
		return [6]float64{}
	}
	r3 := r2 * math.Sqrt(r2)
	omg2 := omgeGLO * omgeGLO

	a := 1.5 * j2GLO * muGLO * reGLO * reGLO / r2 / r3
	b := 5.0 * x[2] * x[2] / r2
	c := -muGLO/r3 - a*(1.0-b)

	return [6]float64{
		x[3],
		x[4],
		x[5],
		(c+omg2)*x[0] + 2.0*omgeGLO*x[4] + acc[0],
		(c+omg2)*x[1] - 2.0*omgeGLO*x[3] + acc[1],
		(c-2.0*a)*x[2] + acc[2],
	}
}

// glorbit advances state x by t seconds of GLONASS orbit dynamics using
// classical 4th-order Runge-Kutta (Glorbit, ephemeris.go).
func glorbit(t float64, x [6]float64, acc [3]float64) [6]float64 {
	k1 := glonassDeriv(x, acc)
	var w [6]float64
	for i := range w {
		w[i] = x[i] + k1[i]*t/2.0
	}
	k2 := glonassDeriv(w, acc)
	for i := range w {
		w[i] = x[i] + k2[i]*t/2.0
	}
	k3 := glonassDeriv(w, acc)
	for i := range w {
		w[i] = x[i] + k3[i]*t
	}
	k4 := glonassDeriv(w, acc)
	var out [6]float64
	for i := range out {
		out[i] = x[i] + (k1[i]+2.0*k2[i]+2.0*k3[i]+k4[i])*t/6.0
	}
	return out
}

// PositionAt integrates the GLONASS state vector from Toe to t in TSTEP
// (60s) strides, returning position, velocity, and a clock bias from the
// linear model -TauN + GammaN*(t-Toe), evaluated once.
func (g *GlonassEph) PositionAt(t gnss.Epoch, applySSR bool) (gnss.ECEF, gnss.ECEF, float64, error) {
	tRemain := t.Sub(g.Toe)

	clk := -g.Taun + g.Gamn*tRemain

	x := [6]float64{g.Pos[0], g.Pos[1], g.Pos[2], g.Vel[0], g.Vel[1], g.Vel[2]}
	step := tstep
	if tRemain < 0 {
		step = -tstep
	}
	for math.Abs(tRemain) > 1e-9 {
		if math.Abs(tRemain) < tstep {
			step = tRemain
		}
		x = glorbit(step, x, g.Acc)
		tRemain -= step
	}

	pos := gnss.ECEF{X: x[0], Y: x[1], Z: x[2]}
	vel := gnss.ECEF{X: x[3], Y: x[4], Z: x[5]}

	if applySSR && g.ssr != nil {
		pos, vel, clk = g.ssr.Apply(pos, vel, clk, t)
	}
	return pos, vel, clk, nil
}
