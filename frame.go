package roekit

import (
	"math"

	"github.com/sakobu/roekit/internal/linalg"
)

// This file implements §4.D: the 6x6 transform T(chief) between
// QuasiNonsingularROE and the chief-centered RIC relative state, valid for
// any eccentricity in [0,1). T factors into a 4x4 in-plane block
// (R, I, Ṙ, İ <-> δa, δλ, δe_x, δe_y) and a 2x2 out-of-plane block
// (C, Ċ <-> δi_x, δi_y); inversion exploits that block-diagonal structure
// instead of a general 6x6 solve.
//
// The in-plane entries are the first-order variations of the chief's
// position and velocity with respect to the element differences, regrouped
// into the quasi-nonsingular combinations so every entry stays finite as
// e -> 0. Velocity rows are the time derivatives of the position rows plus
// the secular δλ̇ = -(3/2)n·δa channel; that channel is where the -1.5·n·r
// entry in the İ row comes from.

// roeFrameState bundles the instantaneous chief scalars the transform needs
// beyond the orbital elements themselves: true anomaly, argument of
// latitude, radius, radial velocity, and angular velocity.
type roeFrameState struct {
	nu       float64 // true anomaly
	u        float64 // argument of latitude, ω+ν
	r        float64
	rDot     float64
	thetaDot float64
	n        float64
	eta      float64 // √(1-e²)
}

func computeFrameState(chief ClassicalOrbitalElements) (roeFrameState, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return roeFrameState{}, err
	}
	nu, err := chief.TrueAnomaly()
	if err != nil {
		return roeFrameState{}, err
	}
	a, e := chief.SemiMajorAxis, chief.Eccentricity
	return roeFrameState{
		nu:       nu,
		u:        chief.ArgPerigee + nu,
		r:        OrbitalRadius(a, e, nu),
		rDot:     RadialVelocity(a, e, nu, n),
		thetaDot: AngularVelocity(e, nu, n),
		n:        n,
		eta:      math.Sqrt(1 - e*e),
	}, nil
}

// inPlaneBlock is the 4x4 block of T mapping (δa, δλ, δe_x, δe_y) to
// (R, I, Ṙ, İ).
func inPlaneBlock(chief ClassicalOrbitalElements, fs roeFrameState) [4][4]float64 {
	a, e := chief.SemiMajorAxis, chief.Eccentricity
	cosF, sinF := math.Cos(fs.nu), math.Sin(fs.nu)
	cosW, sinW := math.Cos(chief.ArgPerigee), math.Sin(chief.ArgPerigee)
	r, rDot, thetaDot, n, eta := fs.r, fs.rDot, fs.thetaDot, fs.n, fs.eta
	eta2 := eta * eta

	// beta = 1+e·cosν; gamma is (beta²-η³)/e with the common factor of e
	// divided out analytically, so the in-track δe coefficients stay
	// finite at e=0.
	beta := 1 + e*cosF
	gamma := 2*cosF + e*cosF*cosF + e*(1+eta+eta2)/(1+eta)

	// d/dt of the in-track δe coefficients, split into the apsidal part
	// (d1, paired with sinω/cosω) and the shared radial-rate part (d2).
	d1 := sinF * thetaDot * (gamma*e - 2*beta*beta) / (beta * beta)
	d2 := (rDot*(2+e*cosF)*sinF + r*thetaDot*((2+e*cosF)*cosF-e*sinF*sinF)) / eta2

	return [4][4]float64{
		{
			r,
			rDot / n,
			a * (sinF*sinW/eta - cosF*cosW),
			-a * (sinF*cosW/eta + cosF*sinW),
		},
		{
			0,
			r * thetaDot / n,
			a*gamma*sinW/(beta*eta) + r*(2+e*cosF)*sinF*cosW/eta2,
			-a*gamma*cosW/(beta*eta) + r*(2+e*cosF)*sinF*sinW/eta2,
		},
		{
			-0.5 * rDot,
			a * e * thetaDot * cosF / eta,
			a * thetaDot * (sinF*cosW + cosF*sinW/eta),
			a * thetaDot * (sinF*sinW - cosF*cosW/eta),
		},
		{
			-1.5 * n * r,
			-rDot * thetaDot / n,
			a*sinW*d1/eta + cosW*d2,
			-a*cosW*d1/eta + sinW*d2,
		},
	}
}

// outOfPlaneBlock is the 2x2 block of T mapping (δi_x, δi_y) to (C, Ċ).
func outOfPlaneBlock(fs roeFrameState) [2][2]float64 {
	cosU, sinU := math.Cos(fs.u), math.Sin(fs.u)
	r, rDot, thetaDot := fs.r, fs.rDot, fs.thetaDot
	return [2][2]float64{
		{r * sinU, -r * cosU},
		{rDot*sinU + r*thetaDot*cosU, -(rDot*cosU - r*thetaDot*sinU)},
	}
}

// RoeToRIC maps chief-relative ROE to a RIC relative state via T(chief).
func RoeToRIC(chief ClassicalOrbitalElements, roe QuasiNonsingularROE) (RelativeState, error) {
	fs, err := computeFrameState(chief)
	if err != nil {
		return RelativeState{}, err
	}
	inPlane := inPlaneBlock(chief, fs)
	outOfPlane := outOfPlaneBlock(fs)

	inVec := [4]float64{roe[IdxDA], roe[IdxDLambda], roe[IdxDEx], roe[IdxDEy]}
	outVec := [2]float64{roe[IdxDIx], roe[IdxDIy]}

	posR := dot4(inPlane[0], inVec)
	posI := dot4(inPlane[1], inVec)
	velR := dot4(inPlane[2], inVec)
	velI := dot4(inPlane[3], inVec)
	posC := dot2(outOfPlane[0], outVec)
	velC := dot2(outOfPlane[1], outVec)

	return RelativeState{
		Position: Vector3{X: posR, Y: posI, Z: posC},
		Velocity: Vector3{X: velR, Y: velI, Z: velC},
	}, nil
}

// RicToROE inverts the transform: chief-relative RIC state to ROE. The
// in-plane (4x4) and out-of-plane (2x2) blocks of T are independent, so each
// is inverted separately rather than performing a general 6x6 solve; this
// also gives distinct, more specific error messages on block singularity.
func RicToROE(chief ClassicalOrbitalElements, ric RelativeState) (QuasiNonsingularROE, error) {
	fs, err := computeFrameState(chief)
	if err != nil {
		return QuasiNonsingularROE{}, err
	}
	inPlane := inPlaneBlock(chief, fs)
	outOfPlane := outOfPlaneBlock(fs)

	invInPlane, err := linalg.Invert4x4(inPlane)
	if err != nil {
		return QuasiNonsingularROE{}, &KernelError{Kind: Singular, Msg: "RicToROE: in-plane 4x4 block is singular", Err: err}
	}
	invOutOfPlane, err := linalg.Invert2x2(outOfPlane)
	if err != nil {
		return QuasiNonsingularROE{}, &KernelError{Kind: Singular, Msg: "RicToROE: out-of-plane 2x2 block is singular", Err: err}
	}

	inVec := [4]float64{ric.Position.X, ric.Position.Y, ric.Velocity.X, ric.Velocity.Y}
	outVec := [2]float64{ric.Position.Z, ric.Velocity.Z}

	var roe QuasiNonsingularROE
	roe[IdxDA] = dot4(invInPlane[0], inVec)
	roe[IdxDLambda] = dot4(invInPlane[1], inVec)
	roe[IdxDEx] = dot4(invInPlane[2], inVec)
	roe[IdxDEy] = dot4(invInPlane[3], inVec)
	roe[IdxDIx] = dot2(invOutOfPlane[0], outVec)
	roe[IdxDIy] = dot2(invOutOfPlane[1], outVec)
	return roe, nil
}

func dot4(row [4]float64, v [4]float64) float64 {
	return row[0]*v[0] + row[1]*v[1] + row[2]*v[2] + row[3]*v[3]
}

func dot2(row [2]float64, v [2]float64) float64 {
	return row[0]*v[0] + row[1]*v[1]
}
