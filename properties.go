package qinfo

func IsSquare(m *Matrix) bool {
	return m.rows == m.cols
}

// IsSymmetric reports whether m equals its transpose within tol.
func IsSymmetric(m *Matrix, tol Tolerance) bool {
	return IsSquare(m) && m.IsClose(m.T(), tol)
}

// IsHermitian reports whether m equals its conjugate transpose within tol.
func IsHermitian(m *Matrix, tol Tolerance) bool {
	return IsSquare(m) && m.IsClose(m.H(), tol)
}

// IsCommuting reports whether AB = BA within tol.
func IsCommuting(a, b *Matrix, tol Tolerance) bool {
	ab, err := a.Mul(b)
	if err != nil {
		return false
	}
	ba, err := b.Mul(a)
	if err != nil {
		return false
	}
	return ab.IsClose(ba, tol)
}

// IsPSD reports whether m is Hermitian with no eigenvalue below -tol.ATol.
func IsPSD(m *Matrix, tol Tolerance) bool {
	if !IsHermitian(m, tol) {
		return false
	}
	values, err := hermitianEigenvalues(m, m.IsReal(tol))
	if err != nil {
		return false
	}
	return values[0] >= -tol.ATol
}

// IsDensity reports whether m is positive semidefinite with unit trace.
func IsDensity(m *Matrix, tol Tolerance) bool {
	return IsPSD(m, tol) && tol.Close(m.Trace(), 1)
}

/*
IsPOVM reports whether the operators form a measurement: equally sized,
positive semidefinite, and summing to the identity.
*/
func IsPOVM(ops []*Matrix, tol Tolerance) bool {
	if len(ops) == 0 {
		return false
	}
	d := ops[0].rows
	sum := Zeros(d, d)
	for _, op := range ops {
		if op.rows != d || op.cols != d || !IsPSD(op, tol) {
			return false
		}
		sum.addScaled(1, op)
	}
	return sum.IsClose(Identity(d), tol)
}
