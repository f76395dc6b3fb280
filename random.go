package qinfo

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
)

/*
RandomPOVM draws numInputs measurements of numOutputs outcomes on dim
dimensions. For each input x it samples Gaussian matrices G_a, forms
S = Σ_a G_aᵀ G_a and returns M_a = S^{-1/2} G_aᵀ G_a S^{-1/2}, so the
outcomes of every input sum to the identity. The result is indexed
[x][a]. A nil rng uses the global source.
*/
func RandomPOVM(dim, numInputs, numOutputs int, rng *rand.Rand) ([][]*Matrix, error) {
	if dim <= 0 || numInputs <= 0 || numOutputs <= 0 {
		return nil, errors.Wrapf(
			ErrDimensionMismatch,
			"random povm dim=%d inputs=%d outputs=%d", dim, numInputs, numOutputs,
		)
	}

	normal := rand.NormFloat64
	if rng != nil {
		normal = rng.NormFloat64
	}

	povms := make([][]*Matrix, numInputs)
	for x := range povms {
		grams := make([]*Matrix, numOutputs)
		sum := Zeros(dim, dim)
		for a := range grams {
			g := Zeros(dim, dim)
			for i := range g.data {
				g.data[i] = complex(normal(), 0)
			}
			grams[a], _ = g.T().Mul(g)
			sum.addScaled(1, grams[a])
		}

		invSqrt, err := inverseSqrt(sum)
		if err != nil {
			return nil, err
		}

		povms[x] = make([]*Matrix, numOutputs)
		for a, gram := range grams {
			left, _ := invSqrt.Mul(gram)
			povms[x][a], _ = left.Mul(invSqrt)
		}
	}
	return povms, nil
}

// inverseSqrt returns S^{-1/2} for a real symmetric positive definite S.
func inverseSqrt(s *Matrix) (*Matrix, error) {
	values, vecs, err := eigenSym(symmetricForm(s, true), true)
	if err != nil {
		return nil, err
	}

	d := s.rows
	out := Zeros(d, d)
	for k, lambda := range values {
		if lambda <= 0 {
			return nil, errors.Wrapf(ErrSolverFailure, "gram matrix is singular (eigenvalue %g)", lambda)
		}
		w := 1 / math.Sqrt(lambda)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				out.data[i*d+j] += complex(w*vecs.At(i, k)*vecs.At(j, k), 0)
			}
		}
	}
	return out, nil
}
