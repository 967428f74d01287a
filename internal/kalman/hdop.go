package kalman

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// horizontalVariance rotates the position covariance's 3x3 sub-block into
// the local ENU frame at the current position estimate and returns the
// east/north/up diagonal variances, grounded on the Ecef2Enu-based
// covariance rotation the teacher's outsolstat/soltocov helpers in
// common.go perform on a solution's covariance for display.
func (f *Filter) horizontalVariance() (qe, qn, qu float64) {
	pos := f.Position().ToGeodetic()
	var r [3][3]float64
	cols := [3]gnss.ECEF{{X: 1}, {Y: 1}, {Z: 1}}
	for j, basis := range cols {
		enu := gnss.ToENU(pos, basis)
		r[0][j] = enu.E
		r[1][j] = enu.N
		r[2][j] = enu.U
	}

	var cov [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] = f.p.At(idxX+i, idxX+j)
		}
	}

	// enuCov = R * cov * R^T
	var rc [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += r[i][k] * cov[k][j]
			}
			rc[i][j] = s
		}
	}
	var enuCov [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += rc[i][k] * r[j][k]
			}
			enuCov[i][j] = s
		}
	}
	return enuCov[0][0], enuCov[1][1], enuCov[2][2]
}

// HDOP returns the horizontal precision indicator spec.md §4.H derives
// from the position covariance's horizontal sub-block: sqrt(qE+qN).
func (f *Filter) HDOP() float64 {
	qe, qn, _ := f.horizontalVariance()
	v := qe + qn
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}
