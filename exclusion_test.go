package qinfo

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func bellVectors(indices ...int) []*Matrix {
	out := make([]*Matrix, len(indices))
	for i, idx := range indices {
		out[i], _ = Bell(idx)
	}
	return out
}

func bellDensities(indices ...int) []*Matrix {
	out := bellVectors(indices...)
	for i, v := range out {
		out[i] = v.Outer()
	}
	return out
}

func complexEnsemble() []*Matrix {
	return []*Matrix{
		FromRows([][]complex128{
			{0.37166502, 0.06990262 + 0.00381928i, 0.44548935 - 0.17369055i},
			{0.06990262 - 0.00381928i, 0.01318651, 0.0820026 - 0.03724556i},
			{0.44548935 + 0.17369055i, 0.0820026 + 0.03724556i, 0.61514848},
		}),
		FromRows([][]complex128{
			{0.03351844, 0.08195346 + 0.02701392i, 0.15185457 + 0.0434629i},
			{0.08195346 - 0.02701392i, 0.22215, 0.40631695 - 0.01611805i},
			{0.15185457 - 0.0434629i, 0.40631695 + 0.01611805i, 0.74433156},
		}),
		FromRows([][]complex128{
			{0.51449115, 0.23369567 + 0.15751255i, 0.41173315 - 0.02901644i},
			{0.23369567 - 0.15751255i, 0.15437363, 0.17813679 - 0.13923301i},
			{0.41173315 + 0.02901644i, 0.17813679 + 0.13923301i, 0.33113522},
		}),
	}
}

var exclusionTolerance = Tolerance{RTol: 0, ATol: 1e-6}

func TestConclusiveStateExclusion(t *testing.T) {
	Convey("Given orthogonal Bell states", t, func() {
		ctx := context.Background()

		Convey("Two density matrices should be excluded with certainty", func() {
			res, err := ConclusiveStateExclusion(ctx, bellDensities(0, 1), []float64{0.5, 0.5})
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
			So(IsPOVM(res.Measurements, exclusionTolerance), ShouldBeTrue)
		})

		Convey("Three vectors with uniform probabilities should be excluded with certainty", func() {
			res, err := ConclusiveStateExclusion(ctx, bellVectors(0, 1, 2), nil)
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
			So(len(res.Measurements), ShouldEqual, 3)
		})

		Convey("A single state can never be excluded", func() {
			res, err := ConclusiveStateExclusion(ctx, bellDensities(0), nil)
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 1, 1e-6)
		})
	})

	Convey("Given non-orthogonal complex states", t, func() {
		res, err := ConclusiveStateExclusion(context.Background(), complexEnsemble(), nil)
		if err != nil {
			spew.Dump(err)
		}
		So(err, ShouldBeNil)
		So(res.Value, ShouldBeBetweenOrEqual, 0, 1)
		So(res.Value, ShouldAlmostEqual, 0.031413, 1e-5)
		So(IsPOVM(res.Measurements, exclusionTolerance), ShouldBeTrue)
	})

	Convey("Given invalid ensembles", t, func() {
		ctx := context.Background()

		Convey("No states should fail", func() {
			_, err := ConclusiveStateExclusion(ctx, nil, nil)
			So(errors.Is(err, ErrInvalidStates), ShouldBeTrue)
		})

		Convey("Probabilities that do not match should fail", func() {
			_, err := ConclusiveStateExclusion(ctx, bellDensities(0, 1), []float64{1, 2, 3})
			So(errors.Is(err, ErrInvalidProbabilityDistribution), ShouldBeTrue)

			_, err = ConclusiveStateExclusion(ctx, bellDensities(0, 1), []float64{0.7, 0.7})
			So(errors.Is(err, ErrInvalidProbabilityDistribution), ShouldBeTrue)

			_, err = ConclusiveStateExclusion(ctx, bellDensities(0, 1), []float64{1.5, -0.5})
			So(errors.Is(err, ErrInvalidProbabilityDistribution), ShouldBeTrue)
		})

		Convey("Mixing vectors and density matrices should fail", func() {
			states := append(bellVectors(0), bellDensities(1)...)
			_, err := ConclusiveStateExclusion(ctx, states, nil)
			So(errors.Is(err, ErrInvalidStates), ShouldBeTrue)
		})

		Convey("States of different dimensions should fail", func() {
			states := append(bellDensities(0), Identity(3).Scale(complex(1.0/3, 0)))
			_, err := ConclusiveStateExclusion(ctx, states, nil)
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}

func TestUnambiguousStateExclusion(t *testing.T) {
	Convey("Given Bell states", t, func() {
		ctx := context.Background()

		Convey("A single density matrix should give zero", func() {
			res, err := UnambiguousStateExclusion(ctx, bellDensities(0), nil)
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
		})

		Convey("A single vector should give zero", func() {
			res, err := UnambiguousStateExclusion(ctx, bellVectors(0), nil)
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
		})

		Convey("Three density matrices should give zero", func() {
			res, err := UnambiguousStateExclusion(ctx, bellDensities(0, 1, 2), []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
		})

		Convey("Three vectors should give zero", func() {
			res, err := UnambiguousStateExclusion(ctx, bellVectors(0, 1, 2), []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
			So(err, ShouldBeNil)
			So(res.Value, ShouldAlmostEqual, 0, 1e-6)
		})
	})

	Convey("Given non-orthogonal complex states", t, func() {
		res, err := UnambiguousStateExclusion(
			context.Background(), complexEnsemble(), []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		)
		So(err, ShouldBeNil)
		So(res.Value, ShouldAlmostEqual, 0, 1e-6)
	})

	Convey("Given invalid ensembles", t, func() {
		ctx := context.Background()

		_, err := UnambiguousStateExclusion(ctx, []*Matrix{}, nil)
		So(errors.Is(err, ErrInvalidStates), ShouldBeTrue)

		_, err = UnambiguousStateExclusion(ctx, bellDensities(0, 1), []float64{1, 2, 3})
		So(errors.Is(err, ErrInvalidProbabilityDistribution), ShouldBeTrue)
	})
}

func TestExclusionInputs(t *testing.T) {
	Convey("Given caller-owned states and probabilities", t, func() {
		states := bellVectors(0, 1)
		before := []*Matrix{states[0].Clone(), states[1].Clone()}
		probs := []float64{0.25, 0.75}

		_, err := ConclusiveStateExclusion(context.Background(), states, probs)
		So(err, ShouldBeNil)

		Convey("Neither should be modified", func() {
			So(states[0].IsVector(), ShouldBeTrue)
			So(states[0].IsClose(before[0], DefaultTolerance), ShouldBeTrue)
			So(states[1].IsClose(before[1], DefaultTolerance), ShouldBeTrue)
			So(probs, ShouldResemble, []float64{0.25, 0.75})
		})
	})

	Convey("Given a custom solver", t, func() {
		solver := &recordingSolver{inner: NewADMMSolver(NewConfig())}
		res, err := UnambiguousStateExclusion(context.Background(), bellDensities(0, 3), nil, WithSolver(solver))
		So(err, ShouldBeNil)
		So(res.Value, ShouldAlmostEqual, 0, 1e-6)

		Convey("The program should carry one block per state plus the slack", func() {
			So(solver.blocks, ShouldResemble, []int{4, 4, 4})
			So(solver.sense, ShouldEqual, Maximize)
			So(solver.real, ShouldBeTrue)
		})
	})

	Convey("Given a solver that fails", t, func() {
		_, err := ConclusiveStateExclusion(context.Background(), bellDensities(0, 1), nil, WithSolver(failingSolver{}))
		So(errors.Is(err, ErrSolverFailure), ShouldBeTrue)
	})
}

type recordingSolver struct {
	inner  Solver
	blocks []int
	sense  Sense
	real   bool
}

func (s *recordingSolver) Solve(ctx context.Context, program *Program) (*Solution, error) {
	s.blocks = program.Blocks()
	s.sense = program.Sense
	s.real = program.Real
	return s.inner.Solve(ctx, program)
}

type failingSolver struct{}

func (failingSolver) Solve(context.Context, *Program) (*Solution, error) {
	return nil, ErrSolverFailure
}
