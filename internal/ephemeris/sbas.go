package ephemeris

import "github.com/fxbgnss/pppengine/internal/gnss"

// SBASEph is an SBAS (geostationary augmentation) broadcast ephemeris:
// a simple second-order Taylor expansion around T0 rather than a Kepler
// or numerically-integrated orbit (SEph2Pos, ephemeris.go).
type SBASEph struct {
	Sat    gnss.Sat
	T0     gnss.Epoch
	Health int

	Pos, Vel, Acc [3]float64
	Af0, Af1      float64

	ssr *SSRAttachment
}

func (s *SBASEph) id() gnss.Sat    { return s.Sat }
func (s *SBASEph) iode() int       { return int(s.T0.Seconds()) }
func (s *SBASEph) toc() gnss.Epoch { return s.T0 }
func (s *SBASEph) healthy() bool   { return s.Health == 0 }

func (s *SBASEph) isNewerThan(other Eph) bool {
	o, ok := other.(*SBASEph)
	if !ok {
		return true
	}
	return s.T0.Sub(o.T0) > 0
}

func (s *SBASEph) attach(ssr *SSRAttachment)  { s.ssr = ssr }
func (s *SBASEph) attachment() *SSRAttachment { return s.ssr }

// PositionAt evaluates the Taylor expansion at t (SEph2Pos, ephemeris.go).
func (s *SBASEph) PositionAt(t gnss.Epoch, applySSR bool) (gnss.ECEF, gnss.ECEF, float64, error) {
	dt := t.Sub(s.T0)
	pos := gnss.ECEF{
		X: s.Pos[0] + s.Vel[0]*dt + s.Acc[0]*dt*dt/2.0,
		Y: s.Pos[1] + s.Vel[1]*dt + s.Acc[1]*dt*dt/2.0,
		Z: s.Pos[2] + s.Vel[2]*dt + s.Acc[2]*dt*dt/2.0,
	}
	vel := gnss.ECEF{
		X: s.Vel[0] + s.Acc[0]*dt,
		Y: s.Vel[1] + s.Acc[1]*dt,
		Z: s.Vel[2] + s.Acc[2]*dt,
	}
	clk := s.Af0 + s.Af1*dt

	if applySSR && s.ssr != nil {
		pos, vel, clk = s.ssr.Apply(pos, vel, clk, t)
	}
	return pos, vel, clk, nil
}
