package roekit

import "math"

// This file implements §4.F's control matrix: the near-circular Gauss
// variational form mapping an impulsive RIC delta-v to the instantaneous
// ROE change it produces.

// ComputeControlMatrix returns the 6x3 matrix B(chief) such that applying
// an RIC delta-v dv produces a ROE change B*dv. Rows are indexed by ROE
// component, columns by (R, I, C) delta-v component.
func ComputeControlMatrix(chief ClassicalOrbitalElements) ([6][3]float64, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return [6][3]float64{}, err
	}
	nu, err := chief.TrueAnomaly()
	if err != nil {
		return [6][3]float64{}, err
	}
	k := 1 / (n * chief.SemiMajorAxis)
	u := chief.ArgPerigee + nu
	sinU, cosU := math.Sin(u), math.Cos(u)

	var b [6][3]float64
	b[IdxDA] = [3]float64{0, 2 * k, 0}
	b[IdxDLambda] = [3]float64{-2 * k, 0, 0}
	b[IdxDEx] = [3]float64{sinU * k, 2 * cosU * k, 0}
	b[IdxDEy] = [3]float64{-cosU * k, 2 * sinU * k, 0}
	b[IdxDIx] = [3]float64{0, 0, cosU * k}
	b[IdxDIy] = [3]float64{0, 0, sinU * k}
	return b, nil
}

// ApplyDeltaV returns roe + B(chief)*dv, the ROE state immediately after an
// impulsive RIC burn.
func ApplyDeltaV(roe QuasiNonsingularROE, dv Vector3, chief ClassicalOrbitalElements) (QuasiNonsingularROE, error) {
	b, err := ComputeControlMatrix(chief)
	if err != nil {
		return QuasiNonsingularROE{}, err
	}
	dvVec := [3]float64{dv.X, dv.Y, dv.Z}
	out := roe
	for i := 0; i < roeDim; i++ {
		out[i] += b[i][0]*dvVec[0] + b[i][1]*dvVec[1] + b[i][2]*dvVec[2]
	}
	return out, nil
}
