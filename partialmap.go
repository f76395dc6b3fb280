package qinfo

import (
	"math"

	"github.com/pkg/errors"
)

type partialMap struct {
	sys  int
	dims *Dims
}

type PartialMapOption func(*partialMap)

// WithSystem selects the subsystem the map acts on, counting from 1.
func WithSystem(sys int) PartialMapOption {
	return func(p *partialMap) {
		p.sys = sys
	}
}

// WithDims declares the subsystem dimensions of the operand.
func WithDims(dims Dims) PartialMapOption {
	return func(p *partialMap) {
		p.dims = &dims
	}
}

/*
PartialMap applies ch to a single subsystem of rho and the identity to the
rest. By default rho is split into two equal subsystems and the map acts on
the second, giving (I ⊗ Φ)(rho).

A Kraus channel is lifted to I ⊗ A_i ⊗ I, I ⊗ B_i ⊗ I and applied directly. A
Choi channel is lifted by tensoring it between unnormalized maximally
entangled links for the untouched subsystems and reordering the six tensor
legs so that all inputs precede all outputs.
*/
func PartialMap(rho *Matrix, ch Channel, opts ...PartialMapOption) (*Matrix, error) {
	p := &partialMap{sys: 2}
	for _, opt := range opts {
		opt(p)
	}

	if err := ch.validate(); err != nil {
		return nil, err
	}

	dims, err := p.resolveDims(rho)
	if err != nil {
		return nil, err
	}
	if p.sys < 1 || p.sys > dims.Len() {
		return nil, errors.Wrapf(ErrInvalidIndex, "system %d of %d", p.sys, dims.Len())
	}

	if ch.IsChoi() {
		return p.applyChoi(rho, ch.choi, dims)
	}
	return p.applyKraus(rho, ch.kraus, dims)
}

func (p *partialMap) resolveDims(rho *Matrix) (Dims, error) {
	if p.dims != nil {
		return *p.dims, p.dims.validate(rho)
	}

	rows, err := squareRoot(rho.rows)
	if err != nil {
		return Dims{}, err
	}
	cols, err := squareRoot(rho.cols)
	if err != nil {
		return Dims{}, err
	}
	return Dims{Rows: []int{rows, rows}, Cols: []int{cols, cols}}, nil
}

func squareRoot(n int) (int, error) {
	r := int(math.Round(math.Sqrt(float64(n))))
	if r*r != n {
		return 0, dimensionMismatch("%d does not split into two equal subsystems", n)
	}
	return r, nil
}

// split returns the dimensions before and after the target system.
func (p *partialMap) split(dims []int) (int, int, int) {
	return product(dims[:p.sys-1]), dims[p.sys-1], product(dims[p.sys:])
}

func (p *partialMap) applyKraus(rho *Matrix, pairs []KrausPair, dims Dims) (*Matrix, error) {
	if len(pairs) == 0 {
		return Zeros(rho.rows, rho.cols), nil
	}

	beforeRows, inRows, afterRows := p.split(dims.Rows)
	beforeCols, inCols, afterCols := p.split(dims.Cols)

	first := pairs[0]
	if first.A.cols != inRows || first.B.cols != inCols {
		return nil, dimensionMismatch(
			"kraus operators %dx%d and %dx%d cannot act on a %dx%d subsystem",
			first.A.rows, first.A.cols, first.B.rows, first.B.cols, inRows, inCols,
		)
	}

	lifted := make([]KrausPair, len(pairs))
	for i, pair := range pairs {
		lifted[i] = KrausPair{
			A: Kron(Identity(beforeRows), pair.A, Identity(afterRows)),
			B: Kron(Identity(beforeCols), pair.B, Identity(afterCols)),
		}
	}
	return applyKraus(rho, lifted)
}

func (p *partialMap) applyChoi(rho *Matrix, choi *Matrix, dims Dims) (*Matrix, error) {
	beforeRows, inRows, afterRows := p.split(dims.Rows)
	beforeCols, inCols, afterCols := p.split(dims.Cols)

	if choi.rows%inRows != 0 || choi.cols%inCols != 0 {
		return nil, dimensionMismatch(
			"choi matrix %dx%d does not factor over a %dx%d subsystem", choi.rows, choi.cols, inRows, inCols,
		)
	}
	outRows := choi.rows / inRows
	outCols := choi.cols / inCols

	lifted, err := PermuteSystems(
		Kron(link(beforeRows, beforeCols), choi, link(afterRows, afterCols)),
		[]int{0, 2, 4, 1, 3, 5},
		Dims{
			Rows: []int{beforeRows, beforeRows, inRows, outRows, afterRows, afterRows},
			Cols: []int{beforeCols, beforeCols, inCols, outCols, afterCols, afterCols},
		},
	)
	if err != nil {
		return nil, err
	}
	return applyChoi(rho, lifted)
}

// link returns Ω_rows Ω_cols†, the Choi matrix of the identity on a rows x cols block.
func link(rows, cols int) *Matrix {
	out := Zeros(rows*rows, cols*cols)
	for a := 0; a < rows; a++ {
		for b := 0; b < cols; b++ {
			out.Set(a*rows+a, b*cols+b, 1)
		}
	}
	return out
}
