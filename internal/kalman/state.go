package kalman

import (
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/matrix"
)

// State vector layout: rover ECEF (3), receiver clock offset in metres (1),
// tropospheric zenith wet delay in metres (1), then one float ambiguity per
// satellite currently tracked, appended as satellites are first seen
// (spec.md §4.H). This generalizes the teacher's fixed NFREQ*MAXSAT layout
// in ppp.go to a dynamically sized vector sized only for satellites
// actually observed.
const (
	idxX   = 0
	idxY   = 1
	idxZ   = 2
	idxClk = 3
	idxTrp = 4
	baseDim = 5
)

const clockResetVarianceM2 = 1e8 // receiver clock whitened each epoch (spec.md §4.H)

// Filter is the PPP sequential Kalman filter of spec.md §4.H: state vector,
// covariance, and the satellite-to-ambiguity-index bookkeeping needed to
// grow the state as new satellites appear.
type Filter struct {
	opt Options

	x *matrix.Dense // baseDim+nAmb x 1
	p *matrix.Dense // square, same dimension

	ambIndex map[gnss.Sat]int // satellite -> state index
	lastSeen map[gnss.Sat]gnss.Epoch

	lastEpoch   gnss.Epoch
	initialized bool
}

// NewFilter builds a filter seeded at approxPos with the apriori
// uncertainties opt specifies (spec.md §4.H initialization).
func NewFilter(opt Options, approxPos gnss.ECEF) *Filter {
	f := &Filter{
		opt:      opt,
		x:        matrix.NewDense(baseDim, 1),
		p:        matrix.NewDense(baseDim, baseDim),
		ambIndex: make(map[gnss.Sat]int),
		lastSeen: make(map[gnss.Sat]gnss.Epoch),
	}
	f.x.Set(idxX, 0, approxPos.X)
	f.x.Set(idxY, 0, approxPos.Y)
	f.x.Set(idxZ, 0, approxPos.Z)
	f.x.Set(idxClk, 0, 0)
	f.x.Set(idxTrp, 0, 0.1)

	f.p.Set(idxX, idxX, sq(opt.AprSigCrd[0]))
	f.p.Set(idxY, idxY, sq(opt.AprSigCrd[1]))
	f.p.Set(idxZ, idxZ, sq(opt.AprSigCrd[2]))
	f.p.Set(idxClk, idxClk, clockResetVarianceM2)
	f.p.Set(idxTrp, idxTrp, sq(opt.AprSigTrp))
	return f
}

func sq(v float64) float64 { return v * v }

// Dim returns the current state dimension.
func (f *Filter) Dim() int { return f.x.Rows }

// Position returns the current rover ECEF estimate.
func (f *Filter) Position() gnss.ECEF {
	return gnss.ECEF{X: f.x.At(idxX, 0), Y: f.x.At(idxY, 0), Z: f.x.At(idxZ, 0)}
}

// ClockM returns the current receiver clock offset, in metres.
func (f *Filter) ClockM() float64 { return f.x.At(idxClk, 0) }

// TropWetM returns the current tropospheric zenith wet delay estimate.
func (f *Filter) TropWetM() float64 { return f.x.At(idxTrp, 0) }

// Covariance returns the full state covariance matrix.
func (f *Filter) Covariance() *matrix.Dense { return f.p }

// NumAmbiguities returns the count of satellites currently carrying a
// float ambiguity state.
func (f *Filter) NumAmbiguities() int { return len(f.ambIndex) }

// PositionCovarianceUpper returns the upper triangle (xx,xy,xz,yy,yz,zz)
// of the rover position's 3x3 covariance sub-block.
func (f *Filter) PositionCovarianceUpper() [6]float64 {
	return [6]float64{
		f.p.At(idxX, idxX), f.p.At(idxX, idxY), f.p.At(idxX, idxZ),
		f.p.At(idxY, idxY), f.p.At(idxY, idxZ),
		f.p.At(idxZ, idxZ),
	}
}

// TropVariance returns the tropospheric wet-delay state's variance.
func (f *Filter) TropVariance() float64 { return f.p.At(idxTrp, idxTrp) }

// ensureAmbiguity returns sat's ambiguity state index, growing the state
// vector and covariance matrix and seeding a fresh apriori variance
// (AprSigAmb^2) if sat has not been seen before.
func (f *Filter) ensureAmbiguity(sat gnss.Sat) int {
	if idx, ok := f.ambIndex[sat]; ok {
		return idx
	}
	idx := f.x.Rows
	f.growTo(idx + 1)
	f.x.Set(idx, 0, 0)
	f.p.Set(idx, idx, sq(f.opt.AprSigAmb))
	f.ambIndex[sat] = idx
	return idx
}

// growTo enlarges x and p to newDim rows/cols, preserving existing content
// and zero-filling the new rows/columns.
func (f *Filter) growTo(newDim int) {
	nx := matrix.NewDense(newDim, 1)
	for r := 0; r < f.x.Rows; r++ {
		nx.Set(r, 0, f.x.At(r, 0))
	}
	np := matrix.NewDense(newDim, newDim)
	for r := 0; r < f.p.Rows; r++ {
		for c := 0; c < f.p.Cols; c++ {
			np.Set(r, c, f.p.At(r, c))
		}
	}
	f.x = nx
	f.p = np
}

// resetAmbiguity zeroes sat's ambiguity row/column except the diagonal,
// which is reseeded to AprSigAmb^2, and reinitializes the ambiguity value
// from the supplied code-minus-range estimate (spec.md §4.H cycle-slip
// handling).
func (f *Filter) resetAmbiguity(sat gnss.Sat, newValue float64) {
	idx, ok := f.ambIndex[sat]
	if !ok {
		return
	}
	for i := 0; i < f.p.Rows; i++ {
		if i == idx {
			continue
		}
		f.p.Set(idx, i, 0)
		f.p.Set(i, idx, 0)
	}
	f.p.Set(idx, idx, sq(f.opt.AprSigAmb))
	f.x.Set(idx, 0, newValue)
}
