// Package matrix provides the dense matrix operations the PPP Kalman
// filter needs: multiplication, transpose, and Gauss-Jordan inversion over
// a flat, row-major []float64 buffer. Grounded on Mat/MatMul/MatInv in
// common.go, reworked from the teacher's column-major Fortran-convention
// layout (and its separate LUDcmp/LUBksb pair) to a row-major Dense type
// with in-place Gauss-Jordan elimination, which is easier to reason about
// from Go call sites that index by (row, col) rather than a raw offset.
package matrix

import (
	"errors"
	"fmt"
)

// ErrSingular is returned by Inverse when the matrix has no inverse to
// working precision.
var ErrSingular = errors.New("matrix: singular, cannot invert")

// Dense is a dense n x m matrix stored row-major.
type Dense struct {
	Rows, Cols int
	data       []float64
}

// NewDense allocates a zeroed rows x cols matrix.
func NewDense(rows, cols int) *Dense {
	return &Dense{Rows: rows, Cols: cols, data: make([]float64, rows*cols)}
}

// Identity returns an n x n identity matrix.
func Identity(n int) *Dense {
	m := NewDense(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}

func (m *Dense) index(r, c int) int {
	if r < 0 || r >= m.Rows || c < 0 || c >= m.Cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d", r, c, m.Rows, m.Cols))
	}
	return r*m.Cols + c
}

func (m *Dense) At(r, c int) float64     { return m.data[m.index(r, c)] }
func (m *Dense) Set(r, c int, v float64) { m.data[m.index(r, c)] = v }
func (m *Dense) Add(r, c int, v float64) { m.data[m.index(r, c)] += v }

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	out := NewDense(m.Rows, m.Cols)
	copy(out.data, m.data)
	return out
}

// Transpose returns m^T as a new matrix.
func (m *Dense) Transpose() *Dense {
	out := NewDense(m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}

// Mul returns m*other.
func (m *Dense) Mul(other *Dense) *Dense {
	if m.Cols != other.Rows {
		panic("matrix: dimension mismatch in Mul")
	}
	out := NewDense(m.Rows, other.Cols)
	for r := 0; r < m.Rows; r++ {
		for k := 0; k < m.Cols; k++ {
			v := m.At(r, k)
			if v == 0 {
				continue
			}
			for c := 0; c < other.Cols; c++ {
				out.Add(r, c, v*other.At(k, c))
			}
		}
	}
	return out
}

// Scale returns m scaled by s.
func (m *Dense) Scale(s float64) *Dense {
	out := NewDense(m.Rows, m.Cols)
	for i, v := range m.data {
		out.data[i] = v * s
	}
	return out
}

// Sub returns m-other as a new matrix.
func (m *Dense) Sub(other *Dense) *Dense {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		panic("matrix: dimension mismatch in Sub")
	}
	out := NewDense(m.Rows, m.Cols)
	for i := range m.data {
		out.data[i] = m.data[i] - other.data[i]
	}
	return out
}

// Inverse computes m^-1 by Gauss-Jordan elimination with partial pivoting,
// grounded on MatInv's LU-decomposition approach in common.go but using
// Gauss-Jordan directly since the Kalman filter's covariance inversions
// are always small, well-conditioned, symmetric positive-definite
// matrices (spec.md §3 invariant: covariance stays positive-definite).
func (m *Dense) Inverse() (*Dense, error) {
	if m.Rows != m.Cols {
		return nil, errors.New("matrix: Inverse requires a square matrix")
	}
	n := m.Rows
	aug := NewDense(n, 2*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			aug.Set(r, c, m.At(r, c))
		}
		aug.Set(r, n+r, 1.0)
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := aug.At(col, col)
		if best < 0 {
			best = -best
		}
		for r := col + 1; r < n; r++ {
			v := aug.At(r, col)
			if v < 0 {
				v = -v
			}
			if v > best {
				best, pivot = v, r
			}
		}
		if best == 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			for c := 0; c < 2*n; c++ {
				aug.data[col*aug.Cols+c], aug.data[pivot*aug.Cols+c] =
					aug.data[pivot*aug.Cols+c], aug.data[col*aug.Cols+c]
			}
		}
		pv := aug.At(col, col)
		for c := 0; c < 2*n; c++ {
			aug.data[col*aug.Cols+c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.At(r, col)
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug.data[r*aug.Cols+c] -= factor * aug.data[col*aug.Cols+c]
			}
		}
	}

	out := NewDense(n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.Set(r, c, aug.At(r, n+c))
		}
	}
	return out, nil
}

// Symmetrize averages m with its transpose in place, guarding against
// floating-point drift breaking the covariance's required symmetry
// (spec.md §3 invariant).
func (m *Dense) Symmetrize() {
	for r := 0; r < m.Rows; r++ {
		for c := r + 1; c < m.Cols; c++ {
			avg := (m.At(r, c) + m.At(c, r)) / 2
			m.Set(r, c, avg)
			m.Set(c, r, avg)
		}
	}
}
