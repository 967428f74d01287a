// Package gnss holds the types and constants shared by every component of
// the PPP core: epoch time, satellite identifiers, coordinate transforms and
// the tropospheric model. It is the idiomatic-Go successor of the constant
// and helper surface in common.go and types.go of the teacher port of
// RTKLIB, trimmed to what the PPP pipeline actually touches.
package gnss

import (
	"fmt"
	"math"
	"time"
)

// Epoch is a GPS-time instant, modelled as whole seconds since the GPS
// epoch (1980-01-06 00:00:00 UTC) plus a sub-second fraction, mirroring the
// teacher's Gtime{Time,Sec} split so that time differencing stays exact to
// the nanosecond without drifting through float64 seconds-since-epoch.
type Epoch struct {
	Sec  int64   // whole seconds since GPS epoch
	Frac float64 // [0,1) fractional second
}

var gpsEpoch = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

// FromTime converts a UTC time.Time to a GPS Epoch, ignoring leap seconds
// (the core treats both broadcast ephemeris time tags and rover timestamps
// as already expressed in GPS time, as the teacher's callers do upstream of
// ephemeris.go/rtcm2.go).
func FromTime(t time.Time) Epoch {
	d := t.Sub(gpsEpoch)
	sec := int64(d / time.Second)
	rem := d % time.Second
	if rem < 0 {
		sec--
		rem += time.Second
	}
	return Epoch{Sec: sec, Frac: float64(rem) / 1e9}
}

// Add returns e shifted by dt seconds (may be negative or fractional).
func (e Epoch) Add(dt float64) Epoch {
	whole := math.Floor(dt)
	frac := e.Frac + (dt - whole)
	carry := math.Floor(frac)
	return Epoch{Sec: e.Sec + int64(whole) + int64(carry), Frac: frac - carry}
}

// Sub returns e-other in seconds.
func (e Epoch) Sub(other Epoch) float64 {
	return float64(e.Sec-other.Sec) + (e.Frac - other.Frac)
}

func (e Epoch) Seconds() float64 { return float64(e.Sec) + e.Frac }

func (e Epoch) String() string {
	return fmt.Sprintf("gpst:%d.%03d", e.Sec, int(e.Frac*1000))
}

// IsZero reports whether e is the unset Epoch.
func (e Epoch) IsZero() bool { return e.Sec == 0 && e.Frac == 0 }
