// Package linalg wraps gonum's mat package with the small set of fixed-size
// operations the kernel needs: dense matrix-vector products at the STM
// dimensions (6, 7, 9) and analytic/Gauss-Jordan inversion of the blocks the
// ROE<->RIC transform and the shooter's Jacobian factor into (3x3, 4x4,
// 2x2).
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// singularPivotThreshold is the minimum acceptable pivot magnitude (for
// Gauss-Jordan) or determinant magnitude (for analytic inversion) before an
// input is rejected as singular.
const singularPivotThreshold = 1e-15

// ErrSingular is wrapped by every inversion failure in this package.
var ErrSingular = errors.New("singular configuration")

// MatVecMul multiplies the dense row-major matrix m (n x n) by the vector v
// (length n), returning an n-length result. No dimension checking beyond
// what gonum itself performs.
func MatVecMul(m [][]float64, v []float64) []float64 {
	n := len(m)
	flat := make([]float64, 0, n*n)
	for _, row := range m {
		flat = append(flat, row...)
	}
	md := mat.NewDense(n, n, flat)
	vd := mat.NewVecDense(n, v)
	var out mat.VecDense
	out.MulVec(md, vd)
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = out.AtVec(i)
	}
	return result
}

// Invert3x3 inverts a dense 3x3 matrix via gonum's general solver, rejecting
// near-singular input by determinant magnitude.
func Invert3x3(m [3][3]float64) ([3][3]float64, error) {
	flat := make([]float64, 0, 9)
	for _, row := range m {
		flat = append(flat, row[:]...)
	}
	md := mat.NewDense(3, 3, flat)
	if det := mat.Det(md); absF(det) < singularPivotThreshold {
		return [3][3]float64{}, fmt.Errorf("invert3x3: %w: |det|=%g", ErrSingular, det)
	}
	var inv mat.Dense
	if err := inv.Inverse(md); err != nil {
		return [3][3]float64{}, fmt.Errorf("invert3x3: %w: %v", ErrSingular, err)
	}
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Invert2x2 inverts a 2x2 matrix analytically.
func Invert2x2(m [2][2]float64) ([2][2]float64, error) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if absF(det) < singularPivotThreshold {
		return [2][2]float64{}, fmt.Errorf("invert2x2: %w: |det|=%g", ErrSingular, det)
	}
	inv := 1 / det
	return [2][2]float64{
		{m[1][1] * inv, -m[0][1] * inv},
		{-m[1][0] * inv, m[0][0] * inv},
	}, nil
}

// Invert4x4 inverts a 4x4 matrix by Gauss-Jordan elimination with partial
// pivoting, matching the source's pivot-threshold convention.
func Invert4x4(m [4][4]float64) ([4][4]float64, error) {
	const n = 4
	var a [n][2 * n]float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i][j] = m[i][j]
		}
		a[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		pivotRow := col
		maxAbs := absF(a[col][col])
		for r := col + 1; r < n; r++ {
			if v := absF(a[r][col]); v > maxAbs {
				maxAbs = v
				pivotRow = r
			}
		}
		if maxAbs < singularPivotThreshold {
			return [4][4]float64{}, fmt.Errorf("invert4x4: %w: pivot=%g", ErrSingular, maxAbs)
		}
		a[col], a[pivotRow] = a[pivotRow], a[col]

		pivot := a[col][col]
		for j := 0; j < 2*n; j++ {
			a[col][j] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			for j := 0; j < 2*n; j++ {
				a[r][j] -= factor * a[col][j]
			}
		}
	}
	var out [4][4]float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i][j] = a[i][n+j]
		}
	}
	return out, nil
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
