package rtcm2

import "github.com/fxbgnss/pppengine/internal/gnss"

// StationPosition is the decoded type-3 reference-station ECEF (spec.md
// §4.C), grounded on decode_type3 (rtcm2.go): x,y,z each signed 32-bit
// times 0.01 m.
type StationPosition struct {
	StationID int
	ECEF      gnss.ECEF
}

// PhaseRecord is one satellite's raw decoded carrier-phase entry from a
// type-18 packet, before 18/19 ambiguity reconciliation.
type PhaseRecord struct {
	Sat         gnss.Sat
	FreqIsL2    bool // false: L1, true: L2
	SlipCounter int
	// PhaseCycles is the truncated 24-bit window value already divided by
	// 256 and sign-negated for conventional range-vs-phase sign, per
	// spec.md §4.C.
	PhaseCycles float64
}

// Type18 is a decoded carrier-phase packet.
type Type18 struct {
	Epoch   float64 // seconds within the GPS hour, rounded to 0.01s
	Records []PhaseRecord
}

// RangeRecord is one satellite's decoded pseudorange entry from a type-19
// packet.
type RangeRecord struct {
	Sat          gnss.Sat
	IsPCode      bool // false: C/A on L1 ("rng_C1"), true: P-code
	FreqIsL2     bool
	PseudorangeM float64
}

// Type19 is a decoded pseudorange packet.
type Type19 struct {
	Epoch   float64
	Records []RangeRecord
}

// OrbitClockRecord is one satellite's type-20/21 high-resolution DGPS
// orbit/clock correction record (spec.md §4.C).
type OrbitClockRecord struct {
	Sat            gnss.Sat
	IOD            int
	Phi1, Phi2     float64 // carrier phase corrections
	Range1, Range2 float64 // pseudorange corrections
	LossOfLock     bool
	IsPCode        bool
}

// AntennaOffset is the decoded type-22 L1/L2 antenna offset record.
type AntennaOffset struct {
	StationID  int
	L1, L2     gnss.ECEF // offsets, metres, in antenna-reference frame
}

// AntennaDescriptor is the decoded type-23 antenna type/serial record.
type AntennaDescriptor struct {
	StationID  int
	Descriptor string
	SetupID    int
	SerialNum  string
}

// ReferencePoint is the decoded type-24 reference-point ECEF, with the
// 6-bit decimetre sub-resolution correction added to the 64mm-scaled base,
// sign-matched (spec.md §4.C).
type ReferencePoint struct {
	StationID int
	ECEF      gnss.ECEF
}
