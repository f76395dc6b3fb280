package qinfo

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func unit(rows, cols, r, c int) *Matrix {
	m := Zeros(rows, cols)
	m.Set(r, c, 1)
	return m
}

func TestApplyMap(t *testing.T) {
	Convey("Given the swap operator as a Choi matrix", t, func() {
		ch := NewChoiChannel(SwapOperator(3))

		Convey("It should transpose its input", func() {
			x := FromReal([][]float64{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}})
			out, err := ApplyMap(x, ch)
			So(err, ShouldBeNil)
			So(out.IsClose(FromReal([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}), DefaultTolerance), ShouldBeTrue)
		})

		Convey("An input that does not divide the Choi matrix should fail", func() {
			_, err := ApplyMap(Identity(2), ch)
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a map with two Kraus pairs", t, func() {
		ch := NewKrausChannel(
			KrausPair{
				A: FromReal([][]float64{{1, 5}, {1, 0}, {0, 2}}),
				B: FromReal([][]float64{{0, 1}, {2, 3}, {4, 5}}),
			},
			KrausPair{
				A: FromReal([][]float64{{-1, 0}, {0, 0}, {0, -1}}),
				B: FromReal([][]float64{{0, 0}, {1, 1}, {0, 0}}),
			},
		)
		x := FromReal([][]float64{{1, 2}, {3, 4}})

		Convey("It should sum A X B† over the pairs", func() {
			out, err := ApplyMap(x, ch)
			So(err, ShouldBeNil)
			So(out.IsClose(FromReal([][]float64{{22, 95, 174}, {2, 8, 14}, {8, 29, 64}}), DefaultTolerance), ShouldBeTrue)
		})

		Convey("Its Choi matrix should act the same way", func() {
			choi, err := ch.Choi()
			So(err, ShouldBeNil)
			So(choi.rows, ShouldEqual, 6)
			out, err := ApplyMap(x, NewChoiChannel(choi))
			So(err, ShouldBeNil)
			So(out.IsClose(FromReal([][]float64{{22, 95, 174}, {2, 8, 14}, {8, 29, 64}}), DefaultTolerance), ShouldBeTrue)
		})

		Convey("An operand of the wrong size should fail", func() {
			_, err := ApplyMap(Identity(3), ch)
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given degenerate channels", t, func() {
		Convey("The empty Kraus list should be the zero map", func() {
			out, err := ApplyMap(Identity(2), NewKrausChannel())
			So(err, ShouldBeNil)
			So(out.IsClose(Zeros(2, 2), DefaultTolerance), ShouldBeTrue)
		})

		Convey("The zero Channel should be rejected", func() {
			_, err := ApplyMap(Identity(2), Channel{})
			So(errors.Is(err, ErrInvalidChannelRepresentation), ShouldBeTrue)
		})

		Convey("Kraus operators of different shapes should be rejected", func() {
			_, err := ApplyMap(Identity(2), NewHermitianKrausChannel(Identity(2), Identity(3)))
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}

func TestKrausToChoi(t *testing.T) {
	Convey("Given the Kraus pairs of the transpose map on a qubit", t, func() {
		pairs := []KrausPair{
			{A: unit(2, 2, 0, 0), B: unit(2, 2, 0, 0).H()},
			{A: unit(2, 2, 0, 1), B: unit(2, 2, 0, 1).H()},
			{A: unit(2, 2, 1, 0), B: unit(2, 2, 1, 0).H()},
			{A: unit(2, 2, 1, 1), B: unit(2, 2, 1, 1).H()},
		}

		Convey("The Choi matrix should be the swap operator", func() {
			choi, err := KrausToChoi(pairs)
			So(err, ShouldBeNil)
			So(choi.IsClose(SwapOperator(2), DefaultTolerance), ShouldBeTrue)
		})

		Convey("Repeated conversions should give identical matrices", func() {
			first, err := KrausToChoi(pairs)
			So(err, ShouldBeNil)
			second, err := KrausToChoi(pairs)
			So(err, ShouldBeNil)
			So(second.data, ShouldResemble, first.data)
		})
	})

	Convey("Given the identity channel", t, func() {
		choi, err := KrausToChoi([]KrausPair{{A: Identity(3), B: Identity(3)}})
		So(err, ShouldBeNil)
		So(choi.IsClose(MaxEntangled(3, false).Outer(), DefaultTolerance), ShouldBeTrue)
	})

	Convey("Given no Kraus pairs", t, func() {
		_, err := KrausToChoi(nil)
		So(errors.Is(err, ErrInvalidChannelRepresentation), ShouldBeTrue)
	})
}

func TestKrausChoiRoundTrip(t *testing.T) {
	x := FromRows([][]complex128{
		{2, 1 - 1i, 0.5i},
		{1 + 1i, 3, -1},
		{-0.5i, -1, 1},
	})

	cases := []struct {
		name string
		ch   Channel
	}{
		{
			name: "hermitian pair",
			ch: NewHermitianKrausChannel(
				FromRows([][]complex128{{1, 1i, 0}, {0, 2, -1}, {1i, 0, 1}}),
				FromReal([][]float64{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}),
			),
		},
		{
			name: "rectangular output",
			ch: NewHermitianKrausChannel(
				FromRows([][]complex128{{1, 0, 1i}, {0, 1, 0}}),
			),
		},
		{
			name: "distinct left and right operators",
			ch: NewKrausChannel(KrausPair{
				A: FromRows([][]complex128{{1, 2, 0}, {0, 1i, 1}}),
				B: FromReal([][]float64{{1, 0, 0}, {0, 0, 1}, {1, 1, 1}, {0, 2, 0}}),
			}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			direct, err := ApplyMap(x, tc.ch)
			require.NoError(t, err)

			choi, err := tc.ch.Choi()
			require.NoError(t, err)

			viaChoi, err := ApplyMap(x, NewChoiChannel(choi))
			require.NoError(t, err)
			require.True(t, viaChoi.IsClose(direct, DefaultTolerance), "choi %v\nkraus %v", viaChoi, direct)
		})
	}
}
