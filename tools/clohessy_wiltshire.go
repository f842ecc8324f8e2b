// Package tools collects closed-form initial-guess solvers the targeting
// layer uses to seed its iterative corrections, mirroring the way the
// kernel's host library keeps standalone transfer solvers in a separate
// package from the state-propagation core.
package tools

import "math"

// ClohessyWiltshireTwoImpulse returns the departure delta-v (in the RIC
// frame) that a linear Clohessy-Wiltshire solution predicts will carry a
// deputy from relPos/relVel to targetPos after time tof, given the chief's
// mean motion n. It is a closed-form initial guess only: the caller is
// expected to refine it with a nonlinear shooter against the full ROE
// dynamics.
//
// For very short transfers (|n*tof| < 0.1) the CW state-transition matrix's
// in-track secular term becomes a poor conditioning base, so this function
// falls back to a simple linear-rate estimate instead.
func ClohessyWiltshireTwoImpulse(relPos, relVel [3]float64, targetPos [3]float64, tof, n float64) [3]float64 {
	if math.Abs(n*tof) < 0.1 {
		return linearRateGuess(relPos, relVel, targetPos, tof)
	}

	nt := n * tof
	sinNt, cosNt := math.Sin(nt), math.Cos(nt)

	// CW position sub-block as a function of (r0, v0): position(tof) =
	// Phi_rr*r0 + Phi_rv*v0. Solve Phi_rv*v0 = target - Phi_rr*r0 for v0.
	phiRR := [3][3]float64{
		{4 - 3*cosNt, 0, 0},
		{6 * (sinNt - nt), 1, 0},
		{0, 0, cosNt},
	}
	phiRV := [3][3]float64{
		{sinNt / n, 2 * (1 - cosNt) / n, 0},
		{2 * (cosNt - 1) / n, (4*sinNt - 3*nt) / n, 0},
		{0, 0, sinNt / n},
	}

	rhs := [3]float64{
		targetPos[0] - dot3(phiRR[0], relPos),
		targetPos[1] - dot3(phiRR[1], relPos),
		targetPos[2] - dot3(phiRR[2], relPos),
	}

	v0, ok := solve3x3(phiRV, rhs)
	if !ok {
		return linearRateGuess(relPos, relVel, targetPos, tof)
	}
	dv := [3]float64{v0[0] - relVel[0], v0[1] - relVel[1], v0[2] - relVel[2]}
	return coerceFinite(dv)
}

// linearRateGuess is the short-transfer fallback: a constant-velocity
// straight-line estimate of the burn needed to close the position gap over
// tof, ignoring chief dynamics entirely.
func linearRateGuess(relPos, relVel, targetPos [3]float64, tof float64) [3]float64 {
	if tof <= 0 {
		return [3]float64{0, 0, 0}
	}
	var dv [3]float64
	for i := 0; i < 3; i++ {
		dv[i] = (targetPos[i]-relPos[i])/tof - relVel[i]
	}
	return coerceFinite(dv)
}

func coerceFinite(v [3]float64) [3]float64 {
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			v[i] = 0
		}
	}
	return v
}

func dot3(row, v [3]float64) float64 {
	return row[0]*v[0] + row[1]*v[1] + row[2]*v[2]
}

// solve3x3 solves a*x = b via Cramer's rule, returning ok=false if a is
// singular.
func solve3x3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	det := det3(a)
	if math.Abs(det) < 1e-12 {
		return [3]float64{}, false
	}
	var x [3]float64
	for col := 0; col < 3; col++ {
		m := a
		for row := 0; row < 3; row++ {
			m[row][col] = b[row]
		}
		x[col] = det3(m) / det
	}
	return x, true
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
