package obsmodel

import (
	"errors"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrFrequencyMissing is returned when the constellation's required signal
// pair is not both present in the raw observation (spec.md §4.F).
var ErrFrequencyMissing = errors.New("obsmodel: required frequency pair not present")

// ErrUnknownGlonassSlot is returned for a GLONASS observation with no
// known FDMA channel number (spec.md §4.F).
var ErrUnknownGlonassSlot = errors.New("obsmodel: glonass slot unknown")

// ErrUnsupportedSystem is returned for a constellation the conditioner has
// no signal-pair table entry for.
var ErrUnsupportedSystem = errors.New("obsmodel: unsupported constellation")

// CodeBiasSource supplies the bias (metres) to add to a pseudorange for a
// satellite's signal code, matched by identifier (spec.md §4.F); backed by
// the ephemeris store's code-bias table in practice.
type CodeBiasSource interface {
	CodeBiasFor(sat gnss.Sat, signalCode string) float64
}

// bandPair names the two RINEX band characters ("1","2","5","7") the
// ionosphere-free combination uses for each constellation (spec.md §4.F
// table).
var bandPair = map[gnss.System][2]byte{
	gnss.SystemGPS: {'1', '2'},
	gnss.SystemGLO: {'1', '2'},
	gnss.SystemGAL: {'1', '5'},
	gnss.SystemBDS: {'2', '7'},
}

func bandFreq(sys gnss.System, band byte, glonassSlot int) float64 {
	switch sys {
	case gnss.SystemGPS:
		if band == '1' {
			return gnss.FreqGPSL1
		}
		return gnss.FreqGPSL2
	case gnss.SystemGLO:
		f1, f2 := gnss.GlonassFreq(glonassSlot)
		if band == '1' {
			return f1
		}
		return f2
	case gnss.SystemGAL:
		if band == '1' {
			return gnss.FreqGalE1
		}
		return gnss.FreqGalE5
	case gnss.SystemBDS:
		if band == '2' {
			return gnss.FreqBDSB2
		}
		return gnss.FreqBDSB7
	}
	return 0
}

func findByBand(freqs []FrequencyObs, band byte) (FrequencyObs, bool) {
	for _, f := range freqs {
		if len(f.Code) > 0 && f.Code[0] == band && f.CodeValid && f.PhaseValid {
			return f, true
		}
	}
	return FrequencyObs{}, false
}

// Condition builds the ionosphere-free SatData for one raw observation,
// applying code biases from biases and dropping observations whose
// required frequency pair is incomplete or whose GLONASS slot is unknown
// (spec.md §4.F).
func Condition(raw RawObservation, biases CodeBiasSource) (SatData, error) {
	pair, ok := bandPair[raw.Sat.Sys]
	if !ok {
		return SatData{}, ErrUnsupportedSystem
	}
	if raw.Sat.Sys == gnss.SystemGLO && !raw.HasSlot {
		return SatData{}, ErrUnknownGlonassSlot
	}

	f1obs, ok1 := findByBand(raw.Frequencies, pair[0])
	f2obs, ok2 := findByBand(raw.Frequencies, pair[1])
	if !ok1 || !ok2 {
		return SatData{}, ErrFrequencyMissing
	}

	freq1 := bandFreq(raw.Sat.Sys, pair[0], raw.GlonassSlot)
	freq2 := bandFreq(raw.Sat.Sys, pair[1], raw.GlonassSlot)
	lambda1 := gnss.Wavelength(freq1)
	lambda2 := gnss.Wavelength(freq2)

	p1 := f1obs.Pseudorange + biasOf(biases, raw.Sat, f1obs.Code)
	p2 := f2obs.Pseudorange + biasOf(biases, raw.Sat, f2obs.Code)
	l1 := f1obs.PhaseCycles * lambda1
	l2 := f2obs.PhaseCycles * lambda2

	a, b := gnss.IFCoefficients(freq1, freq2)
	p3 := a*p1 + b*p2
	l3 := a*l1 + b*l2
	lambda3 := a*lambda1 + b*lambda2

	sd := SatData{
		Sat:     raw.Sat,
		Time:    raw.Time,
		P3:      p3,
		L3:      l3,
		Lambda3: lambda3,
		CoeffA:  a,
		CoeffB:  b,
	}
	assignBand(&sd, pair[0], p1, l1, f1obs.SlipFlag)
	assignBand(&sd, pair[1], p2, l2, f2obs.SlipFlag)
	return sd, nil
}

func assignBand(sd *SatData, band byte, p, l float64, slip bool) {
	switch band {
	case '1':
		sd.P1, sd.L1, sd.Slip1 = p, l, slip
	case '2':
		sd.P2, sd.L2, sd.Slip2 = p, l, slip
	case '5':
		sd.P5, sd.L5 = p, l
	case '7':
		sd.P7, sd.L7 = p, l
	}
}

func biasOf(biases CodeBiasSource, sat gnss.Sat, code string) float64 {
	if biases == nil {
		return 0
	}
	return biases.CodeBiasFor(sat, code)
}
