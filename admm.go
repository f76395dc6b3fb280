package qinfo

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/mat"
)

const (
	admmMinPenalty  = 1e-4
	admmMaxPenalty  = 1e4
	admmImbalance   = 5.0
	admmPenaltyStep = 1.6
)

/*
ADMMSolver is the default Solver. It runs the alternating direction augmented
Lagrangian method on the dual of the standard form program,

	maximize  bᵀy  subject to  𝒜*(y) + S = C,  S ⪰ 0,

updating y by a linear solve against the Cholesky factor of 𝒜𝒜*, S by
projecting onto the PSD cone and X as the multiplier of the dual equality.
The penalty μ is rebalanced whenever one residual dominates the other.
*/
type ADMMSolver struct {
	config SolverConfig
}

func NewADMMSolver(cfg *Config) *ADMMSolver {
	return &ADMMSolver{config: cfg.solver()}
}

type admmState struct {
	x  []*Matrix
	s  []*Matrix
	y  []float64
	ax []float64
	mu float64
}

func (solver *ADMMSolver) Solve(ctx context.Context, program *Program) (*Solution, error) {
	if err := program.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "admm solve interrupted")
	}

	sf := program.standardForm()
	chol, err := sf.gram()
	if err != nil {
		return nil, err
	}

	cfg := solver.config
	state := &admmState{
		x:  zeroBlocks(sf.blocks),
		s:  zeroBlocks(sf.blocks),
		y:  make([]float64, len(sf.b)),
		ax: make([]float64, len(sf.b)),
		mu: cfg.Penalty,
	}

	normB := 1 + vectorNorm(sf.b)
	normC := 1 + blocksNorm(sf.c)

	var pinf, dinf, gap, pobj float64
	iter := 0
	for iter < cfg.MaxIterations {
		iter++
		if iter%cfg.CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "admm solve interrupted")
			}
		}

		if err := state.step(sf, chol); err != nil {
			return nil, err
		}

		residual := make([]float64, len(sf.b))
		for i, v := range state.ax {
			residual[i] = v - sf.b[i]
		}
		pinf = vectorNorm(residual) / normB

		dual := sf.adjoint(state.y)
		for b := range dual {
			dual[b].addScaled(1, state.s[b])
			dual[b].addScaled(-1, sf.c[b])
		}
		dinf = blocksNorm(dual) / normC

		pobj = 0
		for b, c := range sf.c {
			pobj += c.Inner(state.x[b])
		}
		var dobj float64
		for i, v := range sf.b {
			dobj += v * state.y[i]
		}
		gap = math.Abs(pobj-dobj) / (1 + math.Abs(pobj) + math.Abs(dobj))

		if max(pinf, dinf, gap) <= cfg.Tolerance {
			break
		}

		if iter%cfg.CheckInterval == 0 {
			switch {
			case pinf > admmImbalance*dinf:
				state.mu = min(state.mu*admmPenaltyStep, admmMaxPenalty)
			case dinf > admmImbalance*pinf:
				state.mu = max(state.mu/admmPenaltyStep, admmMinPenalty)
			}
		}
	}

	worst := max(pinf, dinf, gap)
	if worst > cfg.AcceptableTolerance {
		return nil, errors.Wrapf(
			ErrSolverFailure,
			"admm did not converge in %d iterations (pinf=%.2e dinf=%.2e gap=%.2e)",
			iter, pinf, dinf, gap,
		)
	}

	errnie.Info(
		"ADMMSolver - %d blocks, %d constraints, %d iterations, pinf=%.2e dinf=%.2e gap=%.2e",
		len(sf.blocks), len(sf.b), iter, pinf, dinf, gap,
	)

	return &Solution{
		Value:               sf.sign * pobj,
		Variables:           state.x,
		Iterations:          iter,
		PrimalInfeasibility: pinf,
		DualInfeasibility:   dinf,
		Gap:                 gap,
	}, nil
}

/*
step performs one sweep:

	y = -(𝒜𝒜*)⁻¹ (μ(𝒜X - b) + 𝒜(S - C))
	V = C - 𝒜*(y) - μX
	S = P₊(V)
	X = (S - V) / μ

and refreshes the cached 𝒜X.
*/
func (state *admmState) step(sf *standardForm, chol *mat.Cholesky) error {
	if len(sf.b) > 0 {
		diff := make([]*Matrix, len(sf.blocks))
		for b := range diff {
			diff[b] = state.s[b].Clone()
			diff[b].addScaled(-1, sf.c[b])
		}
		asc := sf.apply(diff)

		rhs := mat.NewVecDense(len(sf.b), nil)
		for i := range sf.b {
			rhs.SetVec(i, -(state.mu*(state.ax[i]-sf.b[i]) + asc[i]))
		}
		var y mat.VecDense
		if err := chol.SolveVecTo(&y, rhs); err != nil {
			return errors.Wrap(ErrSolverFailure, err.Error())
		}
		for i := range state.y {
			state.y[i] = y.AtVec(i)
		}
	}

	aty := sf.adjoint(state.y)
	for b := range sf.blocks {
		v := sf.c[b].Clone()
		v.addScaled(-1, aty[b])
		v.addScaled(complex(-state.mu, 0), state.x[b])

		s, err := projectPSD(v, sf.real)
		if err != nil {
			return err
		}
		state.s[b] = s

		x := s.Clone()
		x.addScaled(-1, v)
		state.x[b] = x.Scale(complex(1/state.mu, 0))
	}

	state.ax = sf.apply(state.x)
	return nil
}

// gram factors 𝒜𝒜*, whose entries are Σ_b ⟨A_ib, A_jb⟩.
func (sf *standardForm) gram() (*mat.Cholesky, error) {
	m := len(sf.a)
	if m == 0 {
		return nil, nil
	}

	g := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			var v float64
			for b := range sf.blocks {
				if sf.a[i][b] != nil && sf.a[j][b] != nil {
					v += sf.a[i][b].Inner(sf.a[j][b])
				}
			}
			g.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(g); !ok {
		return nil, errors.Wrap(ErrSolverFailure, "constraints are linearly dependent")
	}
	return &chol, nil
}

func zeroBlocks(dims []int) []*Matrix {
	out := make([]*Matrix, len(dims))
	for b, d := range dims {
		out[b] = Zeros(d, d)
	}
	return out
}

func vectorNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func blocksNorm(blocks []*Matrix) float64 {
	var s float64
	for _, m := range blocks {
		s += m.Inner(m)
	}
	return math.Sqrt(s)
}
