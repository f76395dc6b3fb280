package qinfo

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

/*
ExclusionResult is the optimum of a state exclusion program together with the
measurement that attains it, one operator per state.
*/
type ExclusionResult struct {
	Value        float64
	Measurements []*Matrix
	Iterations   int
}

type exclusion struct {
	solver Solver
	config *Config
}

type ExclusionOption func(*exclusion)

// WithSolver replaces the default ADMM backend.
func WithSolver(solver Solver) ExclusionOption {
	return func(e *exclusion) {
		e.solver = solver
	}
}

// WithConfig sets the tolerance used for validation and the default backend.
func WithConfig(cfg *Config) ExclusionOption {
	return func(e *exclusion) {
		e.config = cfg
	}
}

func newExclusion(opts ...ExclusionOption) *exclusion {
	e := &exclusion{}
	for _, opt := range opts {
		opt(e)
	}
	if e.config == nil {
		e.config = NewConfig()
	}
	if e.solver == nil {
		e.solver = NewADMMSolver(e.config)
	}
	return e
}

/*
ConclusiveStateExclusion computes the optimal probability of conclusively
excluding a state from the ensemble,

	minimize    Σ_i p_i ⟨ρ_i, M_i⟩
	subject to  Σ_i M_i = I,  M_i ⪰ 0,

and reports the optimum divided by the number of states. A nil probs is the
uniform distribution. Vector states are turned into density matrices on a
copy; the caller's slices are never modified.
*/
func ConclusiveStateExclusion(
	ctx context.Context, states []*Matrix, probs []float64, opts ...ExclusionOption,
) (*ExclusionResult, error) {
	e := newExclusion(opts...)

	ens, err := newEnsemble(states, probs, e.config.tolerance())
	if err != nil {
		return nil, errors.Wrap(err, "conclusive state exclusion")
	}

	program := NewProgram(Minimize)
	program.Real = ens.real

	blocks := make([]int, len(ens.states))
	for i, rho := range ens.states {
		blocks[i] = program.AddVariable(ens.dim)
		program.AddObjective(blocks[i], rho.Scale(complex(ens.probs[i], 0)))
	}
	program.AddMatrixEquality(blocks, Identity(ens.dim))

	solution, err := e.solver.Solve(ctx, program)
	if err != nil {
		return nil, errors.Wrap(err, "conclusive state exclusion")
	}

	return &ExclusionResult{
		Value:        solution.Value / float64(len(ens.states)),
		Measurements: solution.Variables[:len(blocks)],
		Iterations:   solution.Iterations,
	}, nil
}

/*
UnambiguousStateExclusion computes the optimal probability of excluding a
state with certainty,

	maximize    Σ_i p_i ⟨ρ_i, M_i⟩
	subject to  ⟨ρ_i, M_i⟩ = 0  for every i,
	            Σ_i M_i ⪯ I,  M_i ⪰ 0,

where the remainder I - Σ_i M_i is the inconclusive outcome. The optimum is
reported as is.
*/
func UnambiguousStateExclusion(
	ctx context.Context, states []*Matrix, probs []float64, opts ...ExclusionOption,
) (*ExclusionResult, error) {
	e := newExclusion(opts...)

	ens, err := newEnsemble(states, probs, e.config.tolerance())
	if err != nil {
		return nil, errors.Wrap(err, "unambiguous state exclusion")
	}

	program := NewProgram(Maximize)
	program.Real = ens.real

	blocks := make([]int, len(ens.states))
	for i, rho := range ens.states {
		blocks[i] = program.AddVariable(ens.dim)
		program.AddObjective(blocks[i], rho.Scale(complex(ens.probs[i], 0)))
		program.AddEquality(0, Term{Block: blocks[i], Coeff: rho})
	}
	program.AddMatrixInequality(blocks, Identity(ens.dim))

	solution, err := e.solver.Solve(ctx, program)
	if err != nil {
		return nil, errors.Wrap(err, "unambiguous state exclusion")
	}

	return &ExclusionResult{
		Value:        solution.Value,
		Measurements: solution.Variables[:len(blocks)],
		Iterations:   solution.Iterations,
	}, nil
}

type ensemble struct {
	states []*Matrix
	probs  []float64
	dim    int
	real   bool
}

/*
newEnsemble validates states and probs and returns fresh density matrices
with a resolved distribution. All states must be of one kind, either column
vectors or square matrices, and of one dimension.
*/
func newEnsemble(states []*Matrix, probs []float64, tol Tolerance) (*ensemble, error) {
	if len(states) == 0 {
		return nil, errors.Wrap(ErrInvalidStates, "there must be at least one state")
	}
	for i, s := range states {
		if s == nil {
			return nil, errors.Wrapf(ErrInvalidStates, "state %d is nil", i)
		}
	}

	vectors := states[0].IsVector()
	dim := states[0].rows
	ens := &ensemble{
		states: make([]*Matrix, len(states)),
		dim:    dim,
		real:   true,
	}

	for i, s := range states {
		if s.IsVector() != vectors {
			return nil, errors.Wrapf(ErrInvalidStates, "state %d mixes vectors and density matrices", i)
		}
		if s.rows != dim || (!vectors && s.cols != dim) {
			return nil, dimensionMismatch("state %d is %dx%d, state 0 has dimension %d", i, s.rows, s.cols, dim)
		}

		if vectors {
			ens.states[i] = s.Outer()
		} else {
			ens.states[i] = s.Clone()
		}
		ens.real = ens.real && ens.states[i].IsReal(tol)
	}

	resolved, err := resolveProbabilities(probs, len(states), tol)
	if err != nil {
		return nil, err
	}
	ens.probs = resolved
	return ens, nil
}

func resolveProbabilities(probs []float64, n int, tol Tolerance) ([]float64, error) {
	out := make([]float64, n)
	if probs == nil {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out, nil
	}

	if len(probs) != n {
		return nil, errors.Wrapf(ErrInvalidProbabilityDistribution, "%d probabilities for %d states", len(probs), n)
	}

	var sum float64
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, errors.Wrapf(ErrInvalidProbabilityDistribution, "probability %d is %v", i, p)
		}
		sum += p
		out[i] = p
	}
	if !tol.Close(complex(sum, 0), 1) {
		return nil, errors.Wrapf(ErrInvalidProbabilityDistribution, "probabilities sum to %v", sum)
	}
	return out, nil
}
