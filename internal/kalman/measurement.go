package kalman

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/matrix"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
)

// designRow builds the 1xn partial-derivative row for a range-like
// observation (code or phase) against the current state: -unit vector on
// position, +1 on clock, +mapping on troposphere, and (for phase) +1 on
// the satellite's ambiguity column. Grounded on PPPResidual's per-row
// partial construction in ppp.go.
func (f *Filter) designRow(sat gnss.Sat, unit gnss.ECEF, mapping float64, ambIdx int, isPhase bool) *matrix.Dense {
	h := matrix.NewDense(1, f.x.Rows)
	h.Set(0, idxX, -unit.X)
	h.Set(0, idxY, -unit.Y)
	h.Set(0, idxZ, -unit.Z)
	h.Set(0, idxClk, 1)
	h.Set(0, idxTrp, mapping)
	if isPhase {
		h.Set(0, ambIdx, 1)
	}
	return h
}

// scalarUpdate applies one scalar observation (value = H*x + noise) with
// measurement variance r, rejecting (and reporting) observations whose
// post-fit residual v*r/s would exceed maxRes. Grounded on the PPPResidual/filter_ sequential update in
// ppp.go/common.go, specialized to a single scalar row at a time instead
// of the teacher's batched measurement vector.
func (f *Filter) scalarUpdate(h *matrix.Dense, obs, computed, r, maxRes float64) (accepted bool, residual float64, err error) {
	v := obs - computed

	ht := h.Transpose()
	ph := f.p.Mul(ht) // n x 1
	s := h.Mul(ph).At(0, 0) + r
	if s <= 0 {
		return false, v, ErrNumericalFailure
	}
	if math.Abs(v*r/s) > maxRes {
		return false, v, nil
	}

	k := ph.Scale(1.0 / s) // n x 1 gain

	for i := 0; i < f.x.Rows; i++ {
		f.x.Add(i, 0, k.At(i, 0)*v)
	}

	khp := k.Mul(h).Mul(f.p) // n x n
	f.p = f.p.Sub(khp)
	f.p.Symmetrize()
	return true, v, nil
}

// elevationWeight scales the base sigma by 1/sin(elevation) when the
// option requests elevation weighting, matching the teacher's
// Varerr-style elevation-dependent variance inflation in ppp.go.
func elevationWeight(sigma, elevationRad float64, weight bool) float64 {
	if !weight {
		return sigma
	}
	s := math.Sin(elevationRad)
	if s < 0.1 {
		s = 0.1
	}
	return sigma / s
}

// updateOne runs the code and phase sequential updates for a single
// satellite's conditioned observation against the receiver position
// already in the state vector. Returns whether the satellite contributed
// at least one accepted observation.
func (f *Filter) updateOne(sd obsmodel.SatData, mapping float64) (used bool, codeResidual float64, err error) {
	recv := f.Position()
	_, unit := gnss.GeoDist(sd.SatPos, recv)
	dry, _ := gnss.SaastamoinenZTD(recv.ToGeodetic().Height)
	computed := rangeTo(recv, sd.SatPos) + f.x.At(idxClk, 0) - sd.ClockM +
		dry*mapping + f.x.At(idxTrp, 0)*mapping

	hCode := f.designRow(sd.Sat, unit, mapping, -1, false)
	sigmaCode := elevationWeight(f.opt.SigmaC1, sd.Elevation, f.opt.ElevWeightCode)
	ok, v, uerr := f.scalarUpdate(hCode, sd.P3, computed, sq(sigmaCode), f.opt.MaxResC1)
	if uerr != nil {
		return used, 0, uerr
	}
	codeResidual = v
	if ok {
		used = true
	}

	ambIdx := f.ensureAmbiguity(sd.Sat)
	computedPhase := computed + f.x.At(ambIdx, 0)
	hPhase := f.designRow(sd.Sat, unit, mapping, ambIdx, true)
	sigmaPhase := elevationWeight(f.opt.SigmaL1, sd.Elevation, f.opt.ElevWeightPhase)
	ok, _, uerr = f.scalarUpdate(hPhase, sd.L3, computedPhase, sq(sigmaPhase), f.opt.MaxResL1)
	if uerr != nil {
		return used, codeResidual, uerr
	}
	if ok {
		used = true
	} else {
		f.resetAmbiguity(sd.Sat, sd.L3-computed)
	}
	return used, codeResidual, nil
}

func rangeTo(recv, sat gnss.ECEF) float64 {
	d, _ := gnss.GeoDist(sat, recv)
	return d
}
