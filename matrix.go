package qinfo

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

/*
Tolerance is the pair of relative and absolute tolerances used for every
approximate comparison. Two numbers a and b are close when
|a - b| <= ATol + RTol*|b|.
*/
type Tolerance struct {
	RTol float64
	ATol float64
}

// DefaultTolerance matches the usual rtol=1e-05, atol=1e-08 convention.
var DefaultTolerance = Tolerance{RTol: 1e-5, ATol: 1e-8}

func (t Tolerance) Close(a, b complex128) bool {
	return cmplx.Abs(a-b) <= t.ATol+t.RTol*cmplx.Abs(b)
}

/*
Matrix is a dense complex matrix stored row-major. Operators, density
matrices, state vectors (one column) and Choi matrices all use it. Methods never
modify their receiver unless they say so.
*/
type Matrix struct {
	rows int
	cols int
	data []complex128
}

/*
NewMatrix wraps data (row-major, len rows*cols) without copying. A nil data
slice allocates a zero matrix.
*/
func NewMatrix(rows, cols int, data []complex128) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("qinfo: invalid matrix shape %dx%d", rows, cols))
	}
	if data == nil {
		data = make([]complex128, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("qinfo: %d elements for a %dx%d matrix", len(data), rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func Zeros(rows, cols int) *Matrix {
	return NewMatrix(rows, cols, nil)
}

func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from equally sized rows.
func FromRows(rows [][]complex128) *Matrix {
	if len(rows) == 0 {
		panic("qinfo: no rows")
	}
	m := Zeros(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			panic(fmt.Sprintf("qinfo: row %d has %d columns, want %d", i, len(row), m.cols))
		}
		copy(m.data[i*m.cols:], row)
	}
	return m
}

// FromReal builds a matrix from real rows.
func FromReal(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		panic("qinfo: no rows")
	}
	m := Zeros(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			panic(fmt.Sprintf("qinfo: row %d has %d columns, want %d", i, len(row), m.cols))
		}
		for j, v := range row {
			m.data[i*m.cols+j] = complex(v, 0)
		}
	}
	return m
}

// ColumnVector returns the d x 1 matrix holding v.
func ColumnVector(v ...complex128) *Matrix {
	data := make([]complex128, len(v))
	copy(data, v)
	return NewMatrix(len(v), 1, data)
}

func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *Matrix) At(i, j int) complex128 {
	return m.data[i*m.cols+j]
}

// Set modifies the receiver in place.
func (m *Matrix) Set(i, j int, v complex128) {
	m.data[i*m.cols+j] = v
}

func (m *Matrix) Clone() *Matrix {
	data := make([]complex128, len(m.data))
	copy(data, m.data)
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

// IsVector reports whether m is a column vector.
func (m *Matrix) IsVector() bool {
	return m.cols == 1
}

func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, dimensionMismatch("multiply %dx%d by %dx%d", m.rows, m.cols, o.rows, o.cols)
	}

	out := Zeros(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			row := o.data[k*o.cols : (k+1)*o.cols]
			dst := out.data[i*o.cols : (i+1)*o.cols]
			for j, b := range row {
				dst[j] += a * b
			}
		}
	}
	return out, nil
}

func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, dimensionMismatch("add %dx%d and %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out := m.Clone()
	for i, v := range o.data {
		out.data[i] += v
	}
	return out, nil
}

func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, dimensionMismatch("subtract %dx%d and %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out := m.Clone()
	for i, v := range o.data {
		out.data[i] -= v
	}
	return out, nil
}

func (m *Matrix) Scale(c complex128) *Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] *= c
	}
	return out
}

// addScaled accumulates c*o into the receiver. Shapes must already agree.
func (m *Matrix) addScaled(c complex128, o *Matrix) {
	for i, v := range o.data {
		m.data[i] += c * v
	}
}

// Kron returns the Kronecker product m ⊗ o.
func (m *Matrix) Kron(o *Matrix) *Matrix {
	out := Zeros(m.rows*o.rows, m.cols*o.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			a := m.data[i*m.cols+j]
			if a == 0 {
				continue
			}
			for k := 0; k < o.rows; k++ {
				base := (i*o.rows+k)*out.cols + j*o.cols
				for l := 0; l < o.cols; l++ {
					out.data[base+l] = a * o.data[k*o.cols+l]
				}
			}
		}
	}
	return out
}

// Kron folds the Kronecker product left to right over ms.
func Kron(ms ...*Matrix) *Matrix {
	if len(ms) == 0 {
		return Identity(1)
	}
	out := ms[0]
	for _, m := range ms[1:] {
		out = out.Kron(m)
	}
	return out
}

// H returns the conjugate transpose.
func (m *Matrix) H() *Matrix {
	out := Zeros(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = cmplx.Conj(m.data[i*m.cols+j])
		}
	}
	return out
}

func (m *Matrix) T() *Matrix {
	out := Zeros(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

func (m *Matrix) Conj() *Matrix {
	out := m.Clone()
	for i, v := range out.data {
		out.data[i] = cmplx.Conj(v)
	}
	return out
}

// Trace sums the main diagonal; for rectangular input the shorter one.
func (m *Matrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < min(m.rows, m.cols); i++ {
		tr += m.data[i*m.cols+i]
	}
	return tr
}

/*
Vec stacks the columns of m into a (rows*cols) x 1 vector, so entry
(r, c) lands at index c*rows + r. With this convention
vec(A X B) = (Bᵀ ⊗ A) vec(X).
*/
func (m *Matrix) Vec() *Matrix {
	out := Zeros(m.rows*m.cols, 1)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Outer returns m m†, the density matrix of a state vector.
func (m *Matrix) Outer() *Matrix {
	out, _ := m.Mul(m.H())
	return out
}

// Inner is the real inner product Re Tr(m† o) of equally shaped matrices.
func (m *Matrix) Inner(o *Matrix) float64 {
	var s float64
	for i, a := range m.data {
		b := o.data[i]
		s += real(a)*real(b) + imag(a)*imag(b)
	}
	return s
}

// FrobeniusNorm returns sqrt(Σ|m_ij|²).
func (m *Matrix) FrobeniusNorm() float64 {
	return math.Sqrt(m.Inner(m))
}

// IsReal reports whether every imaginary part is within the absolute tolerance.
func (m *Matrix) IsReal(tol Tolerance) bool {
	for _, v := range m.data {
		if math.Abs(imag(v)) > tol.ATol {
			return false
		}
	}
	return true
}

// IsClose compares m against o element-wise; o is the reference value.
func (m *Matrix) IsClose(o *Matrix, tol Tolerance) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if !tol.Close(v, o.data[i]) {
			return false
		}
	}
	return true
}

func (m *Matrix) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			b.WriteString("\n ")
		}
		b.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.6g", m.data[i*m.cols+j])
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
