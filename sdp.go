package qinfo

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

type Sense int

const (
	Minimize Sense = iota
	Maximize
)

/*
Term is the linear functional X ↦ ⟨Coeff, X_Block⟩ = Re Tr(Coeff† X_Block) on
one block variable of a Program.
*/
type Term struct {
	Block int
	Coeff *Matrix
}

type equality struct {
	terms []Term
	rhs   float64
}

/*
Program is a semidefinite program over Hermitian positive semidefinite block
variables X_0..X_{k-1}:

	optimize  Σ ⟨C_j, X_{b_j}⟩
	subject   Σ ⟨A_ij, X_{b_ij}⟩ = b_i   for every equality i
	          X_b ⪰ 0                   for every block b

Matrix equalities and inequalities are expanded into scalar equalities over
an orthonormal Hermitian basis, so any Solver only ever sees the form above.
When Real is set every block is restricted to real symmetric matrices.

Builder methods record the first error and Solve reports it.
*/
type Program struct {
	Sense Sense
	Real  bool

	blocks     []int
	objective  []Term
	equalities []equality
	err        error
}

func NewProgram(sense Sense) *Program {
	return &Program{Sense: sense}
}

// AddVariable adds a dim x dim PSD block and returns its index.
func (p *Program) AddVariable(dim int) int {
	if dim <= 0 && p.err == nil {
		p.err = dimensionMismatch("variable dimension %d", dim)
	}
	p.blocks = append(p.blocks, dim)
	return len(p.blocks) - 1
}

func (p *Program) Blocks() []int {
	out := make([]int, len(p.blocks))
	copy(out, p.blocks)
	return out
}

// AddObjective adds ⟨coeff, X_block⟩ to the objective.
func (p *Program) AddObjective(block int, coeff *Matrix) {
	if p.checkTerm(Term{Block: block, Coeff: coeff}) {
		p.objective = append(p.objective, Term{Block: block, Coeff: coeff})
	}
}

// AddEquality adds the constraint Σ ⟨t.Coeff, X_t.Block⟩ = rhs.
func (p *Program) AddEquality(rhs float64, terms ...Term) {
	for _, t := range terms {
		if !p.checkTerm(t) {
			return
		}
	}
	p.equalities = append(p.equalities, equality{terms: terms, rhs: rhs})
}

// AddMatrixEquality adds Σ_{b ∈ blocks} X_b = rhs.
func (p *Program) AddMatrixEquality(blocks []int, rhs *Matrix) {
	if p.err != nil {
		return
	}
	if rhs == nil || !IsSquare(rhs) {
		p.err = dimensionMismatch("matrix constraint needs a square right-hand side")
		return
	}
	for _, b := range blocks {
		if b < 0 || b >= len(p.blocks) {
			p.err = errors.Wrapf(ErrInvalidIndex, "block %d of %d", b, len(p.blocks))
			return
		}
		if p.blocks[b] != rhs.rows {
			p.err = dimensionMismatch("block %d is %d-dimensional, right-hand side is %d", b, p.blocks[b], rhs.rows)
			return
		}
	}

	for _, e := range hermitianBasis(rhs.rows, p.Real) {
		terms := make([]Term, len(blocks))
		for i, b := range blocks {
			terms[i] = Term{Block: b, Coeff: e}
		}
		p.equalities = append(p.equalities, equality{terms: terms, rhs: e.Inner(rhs)})
	}
}

/*
AddMatrixInequality adds Σ_{b ∈ blocks} X_b ⪯ rhs by introducing a PSD slack
block S with Σ X_b + S = rhs. It returns the slack block index.
*/
func (p *Program) AddMatrixInequality(blocks []int, rhs *Matrix) int {
	if rhs == nil {
		if p.err == nil {
			p.err = dimensionMismatch("matrix constraint needs a right-hand side")
		}
		return -1
	}
	slack := p.AddVariable(rhs.rows)
	withSlack := make([]int, 0, len(blocks)+1)
	withSlack = append(withSlack, blocks...)
	p.AddMatrixEquality(append(withSlack, slack), rhs)
	return slack
}

func (p *Program) checkTerm(t Term) bool {
	if p.err != nil {
		return false
	}
	if t.Block < 0 || t.Block >= len(p.blocks) {
		p.err = errors.Wrapf(ErrInvalidIndex, "block %d of %d", t.Block, len(p.blocks))
		return false
	}
	if t.Coeff == nil || t.Coeff.rows != p.blocks[t.Block] || t.Coeff.cols != p.blocks[t.Block] {
		p.err = dimensionMismatch("coefficient does not match %d-dimensional block %d", p.blocks[t.Block], t.Block)
		return false
	}
	return true
}

func (p *Program) validate() error {
	if p.err != nil {
		return p.err
	}
	if len(p.blocks) == 0 {
		return errors.Wrap(ErrSolverFailure, "program has no variables")
	}
	return nil
}

/*
standardForm is a Program with every coefficient projected onto the variable
space (Hermitian, or real symmetric) and collected per block, in
minimization form.
*/
type standardForm struct {
	blocks []int
	real   bool
	c      []*Matrix
	a      [][]*Matrix
	b      []float64
	sign   float64
}

func (p *Program) standardForm() *standardForm {
	sf := &standardForm{
		blocks: p.blocks,
		real:   p.Real,
		c:      make([]*Matrix, len(p.blocks)),
		a:      make([][]*Matrix, len(p.equalities)),
		b:      make([]float64, len(p.equalities)),
		sign:   1,
	}
	if p.Sense == Maximize {
		sf.sign = -1
	}

	for _, t := range p.objective {
		if sf.c[t.Block] == nil {
			sf.c[t.Block] = Zeros(p.blocks[t.Block], p.blocks[t.Block])
		}
		sf.c[t.Block].addScaled(complex(sf.sign, 0), sf.project(t.Coeff))
	}
	for b, dim := range p.blocks {
		if sf.c[b] == nil {
			sf.c[b] = Zeros(dim, dim)
		}
	}

	for i, eq := range p.equalities {
		sf.b[i] = eq.rhs
		sf.a[i] = make([]*Matrix, len(p.blocks))
		for _, t := range eq.terms {
			if sf.a[i][t.Block] == nil {
				sf.a[i][t.Block] = Zeros(p.blocks[t.Block], p.blocks[t.Block])
			}
			sf.a[i][t.Block].addScaled(1, sf.project(t.Coeff))
		}
	}
	return sf
}

// project returns the component of m in the variable space.
func (sf *standardForm) project(m *Matrix) *Matrix {
	out := m.Clone()
	out.addScaled(1, m.H())
	out = out.Scale(0.5)
	if sf.real {
		for i, v := range out.data {
			out.data[i] = complex(real(v), 0)
		}
	}
	return out
}

// apply evaluates 𝒜(X).
func (sf *standardForm) apply(x []*Matrix) []float64 {
	out := make([]float64, len(sf.a))
	for i, row := range sf.a {
		for b, coeff := range row {
			if coeff != nil {
				out[i] += coeff.Inner(x[b])
			}
		}
	}
	return out
}

// adjoint evaluates 𝒜*(y) = Σ_i y_i A_i per block.
func (sf *standardForm) adjoint(y []float64) []*Matrix {
	out := make([]*Matrix, len(sf.blocks))
	for b, dim := range sf.blocks {
		out[b] = Zeros(dim, dim)
	}
	for i, row := range sf.a {
		if y[i] == 0 {
			continue
		}
		for b, coeff := range row {
			if coeff != nil {
				out[b].addScaled(complex(y[i], 0), coeff)
			}
		}
	}
	return out
}

/*
hermitianBasis returns an orthonormal basis, under Re Tr(A†B), of the d x d
Hermitian matrices, or of the real symmetric ones when realOnly is set.
*/
func hermitianBasis(d int, realOnly bool) []*Matrix {
	basis := make([]*Matrix, 0, d*d)
	for r := 0; r < d; r++ {
		e := Zeros(d, d)
		e.Set(r, r, 1)
		basis = append(basis, e)
	}

	s := 1 / math.Sqrt2
	for r := 0; r < d; r++ {
		for c := r + 1; c < d; c++ {
			sym := Zeros(d, d)
			sym.Set(r, c, complex(s, 0))
			sym.Set(c, r, complex(s, 0))
			basis = append(basis, sym)

			if realOnly {
				continue
			}
			anti := Zeros(d, d)
			anti.Set(r, c, complex(0, s))
			anti.Set(c, r, complex(0, -s))
			basis = append(basis, anti)
		}
	}
	return basis
}

/*
Solution is the outcome of a solve. Value is the optimal objective in the
Program's own sense. Variables holds the optimal blocks in the order they were
added, slack blocks included.
*/
type Solution struct {
	Value               float64
	Variables           []*Matrix
	Iterations          int
	PrimalInfeasibility float64
	DualInfeasibility   float64
	Gap                 float64
}

// Solver is any backend able to solve a Program.
type Solver interface {
	Solve(ctx context.Context, program *Program) (*Solution, error)
}
