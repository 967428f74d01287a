package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInverse_IdentityRoundTrip(t *testing.T) {
	m := NewDense(3, 3)
	m.Set(0, 0, 4)
	m.Set(0, 1, 3)
	m.Set(1, 0, 6)
	m.Set(1, 1, 3)
	m.Set(2, 2, 1)

	inv, err := m.Inverse()
	require.NoError(t, err)

	product := m.Mul(inv)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			require.InDelta(t, want, product.At(r, c), 1e-9)
		}
	}
}

func TestInverse_Singular(t *testing.T) {
	m := NewDense(2, 2)
	_, err := m.Inverse()
	require.ErrorIs(t, err, ErrSingular)
}

func TestMul_Dimensions(t *testing.T) {
	a := NewDense(2, 3)
	b := NewDense(3, 2)
	for i := 0; i < 6; i++ {
		a.data[i] = float64(i + 1)
		b.data[i] = float64(i + 1)
	}
	c := a.Mul(b)
	require.Equal(t, 2, c.Rows)
	require.Equal(t, 2, c.Cols)
}
