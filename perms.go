package qinfo

import "github.com/pkg/errors"

/*
Dims lists the subsystem dimensions of an operator, separately for its row
and column spaces. A square operator on d1 ⊗ d2 has Rows = Cols = [d1, d2];
a column vector has every column dimension equal to 1.
*/
type Dims struct {
	Rows []int
	Cols []int
}

// SquareDims broadcasts a flat dimension list to both rows and columns.
func SquareDims(d ...int) Dims {
	rows := make([]int, len(d))
	cols := make([]int, len(d))
	copy(rows, d)
	copy(cols, d)
	return Dims{Rows: rows, Cols: cols}
}

func (d Dims) Len() int {
	return len(d.Rows)
}

func (d Dims) validate(m *Matrix) error {
	if len(d.Rows) == 0 || len(d.Rows) != len(d.Cols) {
		return dimensionMismatch("%d row and %d column subsystems", len(d.Rows), len(d.Cols))
	}
	for k := range d.Rows {
		if d.Rows[k] <= 0 || d.Cols[k] <= 0 {
			return dimensionMismatch("subsystem %d is %dx%d", k, d.Rows[k], d.Cols[k])
		}
	}
	if p := product(d.Rows); p != m.rows {
		return dimensionMismatch("row subsystems multiply to %d, matrix has %d rows", p, m.rows)
	}
	if p := product(d.Cols); p != m.cols {
		return dimensionMismatch("column subsystems multiply to %d, matrix has %d columns", p, m.cols)
	}
	return nil
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

/*
PermuteSystems reorders the tensor factors of m. Subsystem k of the result is
subsystem perm[k] of the input (0-based), so PermuteSystems(A ⊗ B, [1, 0])
is B ⊗ A. Row and column dimensions may differ per subsystem.
*/
func PermuteSystems(m *Matrix, perm []int, dims Dims) (*Matrix, error) {
	return permute(m, perm, dims, false)
}

/*
SwapOperator returns the unitary on dim ⊗ dim exchanging the two factors,
S|a⟩|b⟩ = |b⟩|a⟩. It is also the Choi matrix of the transpose map.
*/
func SwapOperator(dim int) *Matrix {
	out, _ := permute(Identity(dim*dim), []int{1, 0}, SquareDims(dim, dim), true)
	return out
}

func permute(m *Matrix, perm []int, dims Dims, rowOnly bool) (*Matrix, error) {
	if err := dims.validate(m); err != nil {
		return nil, err
	}
	if err := validatePermutation(perm, dims.Len()); err != nil {
		return nil, err
	}

	rowMap := permutedIndices(dims.Rows, perm)
	colMap := permutedIndices(dims.Cols, perm)

	out := Zeros(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			v := m.data[i*m.cols+j]
			if v == 0 {
				continue
			}
			c := colMap[j]
			if rowOnly {
				c = j
			}
			out.data[rowMap[i]*m.cols+c] = v
		}
	}
	return out, nil
}

func validatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return errors.Wrapf(ErrDimensionMismatch, "permutation of %d systems for %d subsystems", len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return errors.Wrapf(ErrDimensionMismatch, "%v is not a permutation of 0..%d", perm, n-1)
		}
		seen[p] = true
	}
	return nil
}

// permutedIndices maps every flat index over dims to its index after perm.
func permutedIndices(dims []int, perm []int) []int {
	n := len(dims)
	newDims := make([]int, n)
	for k, p := range perm {
		newDims[k] = dims[p]
	}

	total := product(dims)
	out := make([]int, total)
	digits := make([]int, n)
	for idx := 0; idx < total; idx++ {
		rem := idx
		for k := n - 1; k >= 0; k-- {
			digits[k] = rem % dims[k]
			rem /= dims[k]
		}

		next := 0
		for k := 0; k < n; k++ {
			next = next*newDims[k] + digits[perm[k]]
		}
		out[idx] = next
	}
	return out
}
