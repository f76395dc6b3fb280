package qinfo

import (
	"math/rand/v2"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProperties(t *testing.T) {
	Convey("Given square and rectangular matrices", t, func() {
		So(IsSquare(Identity(3)), ShouldBeTrue)
		So(IsSquare(Zeros(2, 3)), ShouldBeFalse)
		So(IsSymmetric(FromReal([][]float64{{1, 2}, {2, 1}}), DefaultTolerance), ShouldBeTrue)
		So(IsSymmetric(FromReal([][]float64{{1, 2}, {3, 1}}), DefaultTolerance), ShouldBeFalse)
		So(IsHermitian(FromRows([][]complex128{{1, 1i}, {-1i, 1}}), DefaultTolerance), ShouldBeTrue)
		So(IsHermitian(FromRows([][]complex128{{1, 1i}, {1i, 1}}), DefaultTolerance), ShouldBeFalse)
	})

	Convey("Given pairs of matrices", t, func() {
		Convey("Non-commuting matrices should be reported", func() {
			a := FromReal([][]float64{{0, 1}, {0, 0}})
			b := FromReal([][]float64{{1, 0}, {0, 0}})
			So(IsCommuting(a, b, DefaultTolerance), ShouldBeFalse)
		})

		Convey("Commuting matrices should be reported", func() {
			a := FromReal([][]float64{{1, 0, 0}, {0, 1, 0}, {1, 0, 2}})
			b := FromReal([][]float64{{2, 4, 0}, {3, 1, 0}, {-1, -4, 1}})
			So(IsCommuting(a, b, DefaultTolerance), ShouldBeTrue)
		})
	})

	Convey("Given positive semidefinite candidates", t, func() {
		So(IsPSD(FromReal([][]float64{{2, -1}, {-1, 2}}), DefaultTolerance), ShouldBeTrue)
		So(IsPSD(FromReal([][]float64{{1, 2}, {2, 1}}), DefaultTolerance), ShouldBeFalse)
		So(IsPSD(FromRows([][]complex128{{1, 1i}, {-1i, 1}}), DefaultTolerance), ShouldBeTrue)
		So(IsPSD(FromRows([][]complex128{{1, 2i}, {-2i, 1}}), DefaultTolerance), ShouldBeFalse)

		bell, _ := Bell(3)
		So(IsDensity(bell.Outer(), DefaultTolerance), ShouldBeTrue)
		So(IsDensity(Identity(2), DefaultTolerance), ShouldBeFalse)
	})

	Convey("Given candidate measurements", t, func() {
		Convey("A random measurement should be a POVM", func() {
			povms, err := RandomPOVM(2, 2, 2, rand.New(rand.NewPCG(7, 11)))
			So(err, ShouldBeNil)
			So(len(povms), ShouldEqual, 2)
			for _, povm := range povms {
				ok := IsPOVM(povm, DefaultTolerance)
				if !ok {
					spew.Dump(povm)
				}
				So(ok, ShouldBeTrue)
			}
		})

		Convey("Operators that are not PSD should be rejected", func() {
			So(IsPOVM([]*Matrix{
				FromReal([][]float64{{1, 2}, {3, 4}}),
				FromReal([][]float64{{5, 6}, {7, 8}}),
			}, DefaultTolerance), ShouldBeFalse)
		})

		Convey("Operators that do not sum to the identity should be rejected", func() {
			So(IsPOVM([]*Matrix{Identity(2), Identity(2)}, DefaultTolerance), ShouldBeFalse)
		})

		Convey("An empty set should be rejected", func() {
			So(IsPOVM(nil, DefaultTolerance), ShouldBeFalse)
		})
	})
}
