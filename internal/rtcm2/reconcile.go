package rtcm2

import (
	"errors"
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrIncompleteBlock is returned by Reconcile when the 18/19 pair does not
// carry code+phase on both L1 and L2 for GPS, or is not all-or-nothing for
// GLONASS (spec.md §4.C).
var ErrIncompleteBlock = errors.New("rtcm2: incomplete 18/19 observation block")

// ResolvedObservation is one satellite's reconciled carrier phase +
// pseudorange on one frequency, after 24-bit ambiguity resolution.
type ResolvedObservation struct {
	Sat         gnss.Sat
	FreqIsL2    bool
	PseudorangeM float64
	PhaseCycles  float64 // resolved, unwrapped
	SlipCounter  int
}

// Reconcile resolves the 24-bit carrier-phase truncation window against
// the pseudorange in a matching 18/19 pair. The missing integer cycle
// count is n = round((P/lambda - phi) / 2^23); resolved phase is
// phi + n*2^23 (spec.md §4.C — RTCM nominally uses 2^24, but 2^23 matches
// deployed receivers, per spec.md explicit note).
//
// priorGPSSeen records whether any GPS satellite has been observed earlier
// in this decoding session; if the leading satellite of t18 is GLONASS and
// priorGPSSeen is false, the whole block is dropped (spec.md §4.C).
func Reconcile(t18 Type18, t19 Type19, wavelength func(gnss.Sat, bool) float64, priorGPSSeen bool) ([]ResolvedObservation, error) {
	if len(t18.Records) == 0 {
		return nil, ErrIncompleteBlock
	}
	if t18.Records[0].Sat.Sys == gnss.SystemGLO && !priorGPSSeen {
		return nil, ErrLeadingGlonassBeforeGPS
	}

	ranges := make(map[rangeKey]float64, len(t19.Records))
	for _, r := range t19.Records {
		ranges[rangeKey{r.Sat, r.FreqIsL2}] = r.PseudorangeM
	}

	out := make([]ResolvedObservation, 0, len(t18.Records))
	gpsL1, gpsL2 := map[int]bool{}, map[int]bool{}
	gloL1, gloL2 := map[int]bool{}, map[int]bool{}
	anyGlonass := false

	for _, rec := range t18.Records {
		rng, ok := ranges[rangeKey{rec.Sat, rec.FreqIsL2}]
		if !ok {
			continue // no matching range: satellite dropped from this epoch
		}
		lambda := wavelength(rec.Sat, rec.FreqIsL2)
		if lambda <= 0 {
			continue
		}
		n := math.Round((rng/lambda - rec.PhaseCycles) / (1 << 23))
		resolved := rec.PhaseCycles + n*(1<<23)
		out = append(out, ResolvedObservation{
			Sat:          rec.Sat,
			FreqIsL2:     rec.FreqIsL2,
			PseudorangeM: rng,
			PhaseCycles:  resolved,
			SlipCounter:  rec.SlipCounter,
		})
		if rec.Sat.Sys == gnss.SystemGLO {
			anyGlonass = true
			if rec.FreqIsL2 {
				gloL2[rec.Sat.PRN] = true
			} else {
				gloL1[rec.Sat.PRN] = true
			}
		} else {
			if rec.FreqIsL2 {
				gpsL2[rec.Sat.PRN] = true
			} else {
				gpsL1[rec.Sat.PRN] = true
			}
		}
	}

	for prn := range gpsL1 {
		if !gpsL2[prn] {
			return nil, ErrIncompleteBlock
		}
	}
	for prn := range gpsL2 {
		if !gpsL1[prn] {
			return nil, ErrIncompleteBlock
		}
	}
	if anyGlonass {
		for prn := range gloL1 {
			if !gloL2[prn] {
				return nil, ErrIncompleteBlock
			}
		}
		for prn := range gloL2 {
			if !gloL1[prn] {
				return nil, ErrIncompleteBlock
			}
		}
	}
	return out, nil
}

type rangeKey struct {
	sat      gnss.Sat
	freqIsL2 bool
}
