package qinfo

import "github.com/pkg/errors"

/*
Error kinds returned by this package. Callers match them with errors.Is; the
returned errors carry extra context wrapped around the kind.
*/
var (
	// ErrInvalidStates is returned when an ensemble is empty or malformed.
	ErrInvalidStates = errors.New("qinfo: invalid states")

	// ErrInvalidProbabilityDistribution is returned when a probability vector
	// has the wrong length, a negative entry, or does not sum to 1.
	ErrInvalidProbabilityDistribution = errors.New("qinfo: invalid probability distribution")

	// ErrInvalidChannelRepresentation is returned when a Channel carries
	// neither a Choi matrix nor a Kraus list.
	ErrInvalidChannelRepresentation = errors.New("qinfo: invalid channel representation")

	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("qinfo: dimension mismatch")

	// ErrSolverFailure is returned when the SDP backend cannot produce an
	// optimal value.
	ErrSolverFailure = errors.New("qinfo: solver failure")

	// ErrInvalidIndex is returned by state constructors for out of range indices.
	ErrInvalidIndex = errors.New("qinfo: invalid index")
)

func dimensionMismatch(format string, args ...any) error {
	return errors.Wrapf(ErrDimensionMismatch, format, args...)
}
