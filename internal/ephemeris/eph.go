package ephemeris

import (
	"errors"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrNoEphemeris is returned by the satellite state evaluator when neither
// the latest nor the previous ephemeris for a PRN exists or converges
// (spec.md §4.E).
var ErrNoEphemeris = errors.New("ephemeris: no usable ephemeris for satellite")

// Status is an ephemeris's validity classification after CheckEphemeris
// (spec.md §3/§4.D). Bad and outdated entries are kept out of the store;
// OK and unhealthy entries are stored.
type Status int

const (
	StatusOK Status = iota
	StatusBad
	StatusOutdated
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBad:
		return "bad"
	case StatusOutdated:
		return "outdated"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Eph is the tagged ephemeris record variant spec.md §3 describes: common
// attributes (PRN, IOD, TOC, health, newer-than comparator) plus a routine
// returning satellite state at an arbitrary time. KeplerEph, GlonassEph and
// SBASEph are its three concrete implementations.
type Eph interface {
	id() gnss.Sat
	iode() int
	toc() gnss.Epoch
	healthy() bool
	isNewerThan(other Eph) bool
	attach(ssr *SSRAttachment)
	attachment() *SSRAttachment

	// PositionAt returns the satellite's ECEF position, velocity and clock
	// bias (seconds) at t. applySSR controls whether an attached SSR
	// correction is folded in (spec.md §4.E).
	PositionAt(t gnss.Epoch, applySSR bool) (gnss.ECEF, gnss.ECEF, float64, error)
}

// Sat returns the PRN the ephemeris belongs to.
func Sat(e Eph) gnss.Sat { return e.id() }

// IOD returns the ephemeris's issue-of-data tag.
func IOD(e Eph) int { return e.iode() }

// TOC returns the ephemeris's reference clock epoch.
func TOC(e Eph) gnss.Epoch { return e.toc() }

// Healthy reports the ephemeris's broadcast health flag.
func Healthy(e Eph) bool { return e.healthy() }

// PositionAt satisfies the Eph interface method promotion for the
// concrete types below; each type implements it directly.
func (e *KeplerEph) PositionAt(t gnss.Epoch, applySSR bool) (gnss.ECEF, gnss.ECEF, float64, error) {
	return e.positionAt(t, applySSR)
}
