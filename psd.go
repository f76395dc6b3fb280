package qinfo

import (
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

/*
Hermitian eigen problems are handed to gonum through real symmetric matrices.
A complex Hermitian H = A + iB is embedded as

	[ A  -B ]
	[ B   A ]

which has the spectrum of H with every eigenvalue doubled. When the caller
knows H is real the plain symmetric part of A is used instead.
*/
func symmetricForm(h *Matrix, realOnly bool) *mat.SymDense {
	d := h.rows
	if realOnly {
		sym := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				sym.SetSym(i, j, (real(h.At(i, j))+real(h.At(j, i)))/2)
			}
		}
		return sym
	}

	sym := mat.NewSymDense(2*d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			// Hermitian part (H + H†)/2, entry by entry.
			v := (h.At(i, j) + cmplx.Conj(h.At(j, i))) / 2
			a, b := real(v), imag(v)
			sym.SetSym(i, j, a)
			sym.SetSym(i+d, j+d, a)
			sym.SetSym(i, j+d, -b)
			sym.SetSym(j, i+d, b)
		}
	}
	return sym
}

func eigenSym(sym *mat.SymDense, vectors bool) ([]float64, *mat.Dense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, vectors); !ok {
		return nil, nil, errors.Wrap(ErrSolverFailure, "symmetric eigendecomposition did not converge")
	}
	values := eig.Values(nil)
	if !vectors {
		return values, nil, nil
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	return values, &vecs, nil
}

/*
hermitianEigenvalues returns the eigenvalues of the Hermitian part of h in
ascending order. In complex mode each value appears twice.
*/
func hermitianEigenvalues(h *Matrix, realOnly bool) ([]float64, error) {
	values, _, err := eigenSym(symmetricForm(h, realOnly), false)
	return values, err
}

/*
projectPSD returns the nearest (Frobenius) positive semidefinite matrix to
the Hermitian part of h by clipping negative eigenvalues to zero.
*/
func projectPSD(h *Matrix, realOnly bool) (*Matrix, error) {
	d := h.rows
	values, vecs, err := eigenSym(symmetricForm(h, realOnly), true)
	if err != nil {
		return nil, err
	}

	n := len(values)
	p := make([]float64, n*n)
	for k, lambda := range values {
		if lambda <= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			vi := lambda * vecs.At(i, k)
			if vi == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				p[i*n+j] += vi * vecs.At(j, k)
			}
		}
	}

	out := Zeros(d, d)
	if realOnly {
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				out.Set(i, j, complex(p[i*n+j], 0))
			}
		}
		return out, nil
	}

	// The projection keeps the [[A, -B], [B, A]] structure; average both copies.
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			a := (p[i*n+j] + p[(i+d)*n+j+d]) / 2
			b := (p[(i+d)*n+j] - p[i*n+j+d]) / 2
			out.Set(i, j, complex(a, b))
		}
	}
	return out, nil
}
