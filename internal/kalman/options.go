// Package kalman implements the PPP Kalman filter of spec.md §4.H: state
// vector (rover ECEF, receiver clock, tropospheric wet delay, per-PRN
// float ambiguities), time update, cycle-slip handling, and sequential
// ionosphere-free code/phase measurement updates. Grounded on
// UpdatePosPPP/UpdateClkPPP/UpdateTropPPP/PPPResidual in ppp.go,
// generalized from the teacher's fixed multi-frequency/multi-system state
// layout to the simpler ionosphere-free-only state spec.md §4.H scopes.
package kalman

// Options mirrors the configuration table spec.md §6 recognizes. Zero
// values are not valid; use DefaultOptions and override individual
// fields.
type Options struct {
	AprSigCrd [3]float64 // initial sigma on rover ECEF (m)
	NoiseCrd  [3]float64 // process noise per epoch on rover ECEF (m/sqrt(s)); 0 => static

	AprSigTrp float64 // trop initial sigma (m); 0 disables estimation
	NoiseTrp  float64 // trop process noise (m/sqrt(s))

	AprSigAmb float64 // ambiguity reinit sigma (m), default 1000

	SigmaC1 float64 // code measurement sigma (m), default 2.0
	SigmaL1 float64 // phase measurement sigma (m), default 0.01

	MaxResC1 float64 // code residual rejection threshold (m), default 3.0
	MaxResL1 float64 // phase residual rejection threshold (m), default 0.03

	ElevWeightCode  bool // scale code variance by 1/sin^2(elev)
	ElevWeightPhase bool // scale phase variance by 1/sin^2(elev)

	MinElevRad float64 // elevation cutoff, radians
	MinObs     int     // minimum observations per epoch, default 4, floor 4

	SeedingTimeSec float64 // initial convergence window (seconds)

	UseOrbClkCorr bool // whether the satellite evaluator applies SSR corrections

	SlipGapToleranceSec float64 // PRN absence longer than this forces a slip
	SlipTestThreshold   float64 // phase-minus-range jump test threshold (m)

	UseNiellMapping bool // not read by the filter; wet mapping is always gnss.NiellWetMapping (1/sin(elev))
}

// DefaultOptions returns the configuration defaults spec.md §6/§4.H name.
func DefaultOptions() Options {
	return Options{
		AprSigCrd:           [3]float64{1e4, 1e4, 1e4},
		NoiseCrd:            [3]float64{0, 0, 0},
		AprSigTrp:           0.3,
		NoiseTrp:            1e-4,
		AprSigAmb:           1000.0,
		SigmaC1:             2.0,
		SigmaL1:             0.01,
		MaxResC1:            3.0,
		MaxResL1:            0.03,
		ElevWeightCode:      true,
		ElevWeightPhase:     true,
		MinElevRad:          0.1745329, // 10 degrees
		MinObs:              4,
		SeedingTimeSec:      0,
		UseOrbClkCorr:       true,
		SlipGapToleranceSec: 120,
		SlipTestThreshold:   0.05,
		UseNiellMapping:     false,
	}
}

func (o *Options) minObsFloor() int {
	if o.MinObs < 4 {
		return 4
	}
	return o.MinObs
}
