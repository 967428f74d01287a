package gnss

import "fmt"

// System identifies a GNSS constellation, grounded on the SYS_* constants
// in common.go (SatNo/SatSys). Only the constellations the PPP core
// supports carry a conditioner entry (§4.F); the rest are kept so the
// ephemeris store and RTCM2 decoders can name every PRN they encounter.
type System byte

const (
	SystemGPS System = 'G'
	SystemGLO System = 'R'
	SystemGAL System = 'E'
	SystemBDS System = 'C'
	SystemQZS System = 'J'
	SystemSBS System = 'S'
)

func (s System) String() string { return string(rune(s)) }

// Sat is a satellite identifier: constellation letter + PRN/slot number,
// the canonical pair form spec.md §3 names. Num gives the dense integer
// encoding (system*64+number) used for ring-buffer/array indexing, the same
// scheme SatNo/SatSys implement in common.go with a different base.
type Sat struct {
	Sys System
	PRN int // 1..63
}

func (s Sat) String() string { return fmt.Sprintf("%c%02d", s.Sys, s.PRN) }

var sysOrder = map[System]int{
	SystemGPS: 0, SystemGLO: 1, SystemGAL: 2, SystemBDS: 3, SystemQZS: 4, SystemSBS: 5,
}

// Num returns the dense index used to size per-PRN arrays: system*64+PRN.
func (s Sat) Num() int {
	o, ok := sysOrder[s.Sys]
	if !ok {
		o = len(sysOrder)
	}
	return o*64 + s.PRN
}

// Valid reports whether the PRN is in the legal 1..63 range for its system.
func (s Sat) Valid() bool { return s.PRN >= 1 && s.PRN <= 63 }

// RawPRNWrap bounds the raw RTCM2 5-bit PRN field; 0 conventionally means 32,
// per spec.md §4.C (decode_type18/19 per-satellite fields).
const RawPRNWrap = 32
