package kalman

import (
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
)

// slipped reports whether sd's observation should be treated as a cycle
// slip against the filter's bookkeeping, grounded on DetectSlp_ll/
// DetectSlp_gf/DetectSlp_mw in ppp.go: a receiver-reported slip flag, a
// phase-minus-range jump beyond the configured threshold, or the
// satellite having been absent longer than the configured gap tolerance,
// any of which invalidates the carried ambiguity.
func (f *Filter) slipped(sd obsmodel.SatData) bool {
	if sd.Slip1 || sd.Slip2 {
		return true
	}
	last, seen := f.lastSeen[sd.Sat]
	if !seen {
		return true // first sighting: no prior ambiguity to trust
	}
	if sd.Time.Sub(last) > f.opt.SlipGapToleranceSec {
		return true
	}
	idx, hasAmb := f.ambIndex[sd.Sat]
	if !hasAmb {
		return true
	}
	predicted := sd.P3 + f.x.At(idx, 0)
	jump := sd.L3 - predicted
	return jump > f.opt.SlipTestThreshold || jump < -f.opt.SlipTestThreshold
}

// applySlip reinitializes sat's ambiguity from the current epoch's phase
// minus the clock-corrected code (P3 less the receiver-clock state), and
// records the sighting so the next epoch's slip test has a reference
// (spec.md §4.H: "reinit value from current epoch's code minus
// filter-predicted range").
func (f *Filter) applySlip(sat gnss.Sat, sd obsmodel.SatData) {
	idx := f.ensureAmbiguity(sat)
	_ = idx
	rangeGuess := sd.P3 - f.x.At(idxClk, 0)
	f.resetAmbiguity(sat, sd.L3-rangeGuess)
	f.lastSeen[sat] = sd.Time
}
