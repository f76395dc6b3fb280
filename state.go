package qinfo

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// Ket returns the standard basis vector |idx⟩ of dimension dim.
func Ket(dim, idx int) (*Matrix, error) {
	if dim <= 0 || idx < 0 || idx >= dim {
		return nil, errors.Wrapf(ErrInvalidIndex, "ket %d of dimension %d", idx, dim)
	}
	v := Zeros(dim, 1)
	v.data[idx] = 1
	return v, nil
}

/*
Bell returns one of the four two-qubit Bell vectors:

	0: (|00⟩ + |11⟩)/√2
	1: (|00⟩ - |11⟩)/√2
	2: (|01⟩ + |10⟩)/√2
	3: (|01⟩ - |10⟩)/√2
*/
func Bell(idx int) (*Matrix, error) {
	amp := complex(1/math.Sqrt2, 0)
	switch idx {
	case 0:
		return ColumnVector(amp, 0, 0, amp), nil
	case 1:
		return ColumnVector(amp, 0, 0, -amp), nil
	case 2:
		return ColumnVector(0, amp, amp, 0), nil
	case 3:
		return ColumnVector(0, amp, -amp, 0), nil
	}
	return nil, errors.Wrapf(ErrInvalidIndex, "bell state %d", idx)
}

/*
GenPauli returns the generalised Pauli operator X^k1 Z^k2 on dim dimensions,
where X|j⟩ = |j+1 mod dim⟩ and Z|j⟩ = ω^j |j⟩ with ω = exp(2πi/dim).
*/
func GenPauli(k1, k2, dim int) *Matrix {
	out := Zeros(dim, dim)
	for j := 0; j < dim; j++ {
		phase := 2 * math.Pi * float64((j*k2)%dim) / float64(dim)
		out.Set((j+k1)%dim, j, cmplx.Exp(complex(0, phase)))
	}
	return out
}

/*
GenBell returns the density matrix of the generalised Bell state
vec(X^k1 Z^k2) vec(X^k1 Z^k2)† / dim. For dim = 2 the four index pairs give the
projectors onto Bell(0) .. Bell(3).
*/
func GenBell(k1, k2, dim int) *Matrix {
	v := GenPauli(k1, k2, dim).Vec()
	return v.Outer().Scale(complex(1/float64(dim), 0))
}

/*
Tile returns one of the five Tiles unextendible-product-basis vectors on
two qutrits:

	0: |0⟩(|0⟩ - |1⟩)/√2
	1: (|0⟩ - |1⟩)|2⟩/√2
	2: |2⟩(|1⟩ - |2⟩)/√2
	3: (|1⟩ - |2⟩)|0⟩/√2
	4: (|0⟩ + |1⟩ + |2⟩)(|0⟩ + |1⟩ + |2⟩)/3
*/
func Tile(idx int) (*Matrix, error) {
	e0 := ColumnVector(1, 0, 0)
	e1 := ColumnVector(0, 1, 0)
	e2 := ColumnVector(0, 0, 1)
	diff := func(a, b *Matrix) *Matrix {
		out, _ := a.Sub(b)
		return out
	}
	half := complex(1/math.Sqrt2, 0)

	switch idx {
	case 0:
		return Kron(e0, diff(e0, e1)).Scale(half), nil
	case 1:
		return Kron(diff(e0, e1), e2).Scale(half), nil
	case 2:
		return Kron(e2, diff(e1, e2)).Scale(half), nil
	case 3:
		return Kron(diff(e1, e2), e0).Scale(half), nil
	case 4:
		all := ColumnVector(1, 1, 1)
		return Kron(all, all).Scale(complex(1.0/3, 0)), nil
	}
	return nil, errors.Wrapf(ErrInvalidIndex, "tile state %d", idx)
}

/*
MaxEntangled returns Σ_k |k⟩|k⟩ on dim ⊗ dim, divided by √dim when normalized
is set.
*/
func MaxEntangled(dim int, normalized bool) *Matrix {
	v := Zeros(dim*dim, 1)
	amp := complex(1, 0)
	if normalized {
		amp = complex(1/math.Sqrt(float64(dim)), 0)
	}
	for k := 0; k < dim; k++ {
		v.data[k*dim+k] = amp
	}
	return v
}

// PureToMixed turns a state vector into its density matrix.
func PureToMixed(vec *Matrix) (*Matrix, error) {
	if !vec.IsVector() {
		return nil, dimensionMismatch("expected a column vector, got %dx%d", vec.rows, vec.cols)
	}
	return vec.Outer(), nil
}
