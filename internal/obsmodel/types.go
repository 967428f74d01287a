// Package obsmodel is the observation conditioner of spec.md §4.F: it
// turns raw per-frequency ingress observations into the ionosphere-free
// SatData the Kalman filter consumes, applying code biases and dropping
// incomplete or unknown-slot observations. Grounded on CorrMeas in ppp.go
// (the antenna/DCB-corrected ionosphere-free combination), generalized
// from the teacher's fixed NFREQ-array layout to the signal-code-string
// matching spec.md's ingress type describes.
package obsmodel

import "github.com/fxbgnss/pppengine/internal/gnss"

// FrequencyObs is one signal's raw observation on ingress (spec.md §6):
// a RINEX-style code-channel string ("1C","1W","2W","5X","7I", ...), code
// pseudorange and carrier phase (cycles), slip flag, and per-measurement
// validity.
type FrequencyObs struct {
	Code        string
	Pseudorange float64
	PhaseCycles float64
	SlipFlag    bool
	CodeValid   bool
	PhaseValid  bool
}

// RawObservation is one satellite's ingress record for one epoch: the
// per-frequency signals keyed by whatever the receiver reported, with no
// fixed slot assignment (spec.md §6).
type RawObservation struct {
	Sat         gnss.Sat
	Time        gnss.Epoch
	Frequencies []FrequencyObs
	GlonassSlot int  // FDMA channel number; only meaningful for GLONASS
	HasSlot     bool // false => slot unknown, observation dropped for GLONASS
}

// SatData is the conditioned per-satellite, per-epoch observation spec.md
// §3 describes: per-frequency code/phase in metres, the ionosphere-free
// combination, and the fields the satellite evaluator/Kalman filter fill
// in later (position, velocity, clock, elevation/azimuth).
type SatData struct {
	Sat  gnss.Sat
	Time gnss.Epoch

	P1, P2, P5, P7 float64
	L1, L2, L5, L7 float64 // metres, converted from cycles at ingress
	Slip1, Slip2   bool

	P3, L3   float64
	Lambda3  float64
	CoeffA   float64
	CoeffB   float64

	SatPos   gnss.ECEF
	SatVel   gnss.ECEF
	ClockM   float64

	Elevation float64
	Azimuth   float64
}
