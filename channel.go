package qinfo

import "github.com/pkg/errors"

/*
KrausPair is one term A X B† of a map in Kraus form. For completely positive
maps A and B coincide.
*/
type KrausPair struct {
	A *Matrix
	B *Matrix
}

/*
Channel is a linear map on operators held in exactly one of two forms: a list
of Kraus pairs, Φ(X) = Σ_i A_i X B_i†, or a Choi matrix
C = Σ_ij |i⟩⟨j| ⊗ Φ(|i⟩⟨j|). The form is fixed by the constructor and
resolved once by ApplyMap and PartialMap. The zero Channel is in neither form.
*/
type Channel struct {
	kraus   []KrausPair
	choi    *Matrix
	isKraus bool
}

// NewKrausChannel builds a channel from Kraus pairs. No pairs is the zero map.
func NewKrausChannel(pairs ...KrausPair) Channel {
	kraus := make([]KrausPair, len(pairs))
	copy(kraus, pairs)
	return Channel{kraus: kraus, isKraus: true}
}

/*
NewHermitianKrausChannel builds a channel from single Kraus operators, pairing
each operator with itself: Φ(X) = Σ_i A_i X A_i†.
*/
func NewHermitianKrausChannel(ops ...*Matrix) Channel {
	kraus := make([]KrausPair, len(ops))
	for i, op := range ops {
		kraus[i] = KrausPair{A: op, B: op}
	}
	return Channel{kraus: kraus, isKraus: true}
}

// NewChoiChannel builds a channel from its Choi matrix.
func NewChoiChannel(choi *Matrix) Channel {
	return Channel{choi: choi}
}

// IsKraus reports whether the channel holds Kraus pairs, including none.
func (c Channel) IsKraus() bool {
	return c.isKraus
}

// IsChoi reports whether the channel holds a Choi matrix.
func (c Channel) IsChoi() bool {
	return !c.isKraus && c.choi != nil
}

// Kraus returns a copy of the Kraus pairs, or nil for a Choi channel.
func (c Channel) Kraus() []KrausPair {
	if !c.isKraus {
		return nil
	}
	out := make([]KrausPair, len(c.kraus))
	copy(out, c.kraus)
	return out
}

// Choi returns the Choi matrix, converting from Kraus form when needed.
func (c Channel) Choi() (*Matrix, error) {
	switch {
	case c.IsChoi():
		return c.choi, nil
	case c.isKraus:
		return KrausToChoi(c.kraus)
	}
	return nil, errors.Wrap(ErrInvalidChannelRepresentation, "channel has neither Kraus nor Choi form")
}

func (c Channel) validate() error {
	if c.IsChoi() {
		return nil
	}
	if !c.isKraus {
		return errors.Wrap(ErrInvalidChannelRepresentation, "channel has neither Kraus nor Choi form")
	}
	return validateKraus(c.kraus)
}

// validateKraus checks every A_i shares one shape and every B_i another.
func validateKraus(pairs []KrausPair) error {
	for i, p := range pairs {
		if p.A == nil || p.B == nil {
			return errors.Wrapf(ErrInvalidChannelRepresentation, "kraus pair %d has a nil operator", i)
		}
		first := pairs[0]
		if p.A.rows != first.A.rows || p.A.cols != first.A.cols {
			return dimensionMismatch(
				"kraus operator A_%d is %dx%d, A_0 is %dx%d", i, p.A.rows, p.A.cols, first.A.rows, first.A.cols,
			)
		}
		if p.B.rows != first.B.rows || p.B.cols != first.B.cols {
			return dimensionMismatch(
				"kraus operator B_%d is %dx%d, B_0 is %dx%d", i, p.B.rows, p.B.cols, first.B.rows, first.B.cols,
			)
		}
	}
	return nil
}

/*
Depolarizing returns the Choi matrix of the completely depolarizing channel
on dim dimensions, Φ(X) = Tr(X) I/dim, which is I/dim on dim ⊗ dim.
*/
func Depolarizing(dim int) *Matrix {
	return Identity(dim * dim).Scale(complex(1/float64(dim), 0))
}
