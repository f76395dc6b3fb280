package qinfo

import (
	"math/cmplx"

	"github.com/pkg/errors"
)

/*
KrausToChoi returns the Choi matrix C = Σ_i vec(A_i) vec(B_i)† of the map with
the given Kraus pairs, vec stacking columns. For A_i of shape dout×din the
result is indexed by (input, output) pairs, row (i, r) = i*dout + r, so that
C = Σ_ij |i⟩⟨j| ⊗ Φ(|i⟩⟨j|).
*/
func KrausToChoi(pairs []KrausPair) (*Matrix, error) {
	if len(pairs) == 0 {
		return nil, errors.Wrap(ErrInvalidChannelRepresentation, "cannot infer dimensions of an empty Kraus list")
	}
	if err := validateKraus(pairs); err != nil {
		return nil, err
	}

	first := pairs[0]
	choi := Zeros(first.A.rows*first.A.cols, first.B.rows*first.B.cols)
	for _, p := range pairs {
		a := p.A.Vec()
		b := p.B.Vec()
		for i, x := range a.data {
			if x == 0 {
				continue
			}
			row := choi.data[i*choi.cols : (i+1)*choi.cols]
			for j, y := range b.data {
				row[j] += x * cmplx.Conj(y)
			}
		}
	}
	return choi, nil
}

/*
ApplyMap returns Φ(x). A Kraus channel is applied as Σ_i A_i x B_i†; the
empty Kraus list is the zero map and returns a zero operator shaped like x.
A Choi channel is contracted as Φ(x) = Tr_in[C (xᵀ ⊗ I)], i.e.
Φ(x)[r,s] = Σ_ij x[i,j] C[(i,r),(j,s)], with the output dimensions read from
the shape of C.
*/
func ApplyMap(x *Matrix, ch Channel) (*Matrix, error) {
	if err := ch.validate(); err != nil {
		return nil, err
	}
	if ch.IsChoi() {
		return applyChoi(x, ch.choi)
	}
	return applyKraus(x, ch.kraus)
}

func applyKraus(x *Matrix, pairs []KrausPair) (*Matrix, error) {
	if len(pairs) == 0 {
		return Zeros(x.rows, x.cols), nil
	}

	first := pairs[0]
	if first.A.cols != x.rows || first.B.cols != x.cols {
		return nil, dimensionMismatch(
			"kraus operators %dx%d and %dx%d cannot act on a %dx%d operator",
			first.A.rows, first.A.cols, first.B.rows, first.B.cols, x.rows, x.cols,
		)
	}

	out := Zeros(first.A.rows, first.B.rows)
	for _, p := range pairs {
		ax, err := p.A.Mul(x)
		if err != nil {
			return nil, err
		}
		term, err := ax.Mul(p.B.H())
		if err != nil {
			return nil, err
		}
		out.addScaled(1, term)
	}
	return out, nil
}

func applyChoi(x *Matrix, choi *Matrix) (*Matrix, error) {
	if choi.rows%x.rows != 0 || choi.cols%x.cols != 0 {
		return nil, dimensionMismatch(
			"choi matrix %dx%d does not factor over a %dx%d input", choi.rows, choi.cols, x.rows, x.cols,
		)
	}

	outRows := choi.rows / x.rows
	outCols := choi.cols / x.cols
	out := Zeros(outRows, outCols)
	for i := 0; i < x.rows; i++ {
		for j := 0; j < x.cols; j++ {
			v := x.data[i*x.cols+j]
			if v == 0 {
				continue
			}
			for r := 0; r < outRows; r++ {
				src := choi.data[(i*outRows+r)*choi.cols+j*outCols : (i*outRows+r)*choi.cols+(j+1)*outCols]
				dst := out.data[r*outCols : (r+1)*outCols]
				for s, c := range src {
					dst[s] += v * c
				}
			}
		}
	}
	return out, nil
}
