package roekit

import "math"

// This file implements §4.C: the closed-form state transition matrices
// (STMs) for quasi-nonsingular ROE under Keplerian, J2, and
// differential-drag dynamics (Koenig, Guffanti & D'Amico 2017).
//
// Each STM is returned as a dense row-major matrix so internal/linalg can
// apply it with a single matVecMul call; every STM equals the identity at
// tau=0 (§8 property 2).

// stmDim enumerates the augmented state dimensions the kernel supports.
type stmDim int

const (
	dimKeplerian stmDim = 6
	dimJ2        stmDim = 6
	dimDragEcc   stmDim = 7
	dimDragArb   stmDim = 9
)

// keplerianSTM returns the 6x6 Keplerian STM: identity except for the
// secular δλ drift driven by δa.
func keplerianSTM(chief ClassicalOrbitalElements, tau float64) ([][]float64, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return nil, err
	}
	phi := identityMatrix(6)
	phi[IdxDLambda][IdxDA] = -1.5 * n * tau
	return phi, nil
}

// j2STM returns the closed-form 6x6 J2 STM (Eq. A6 of Koenig 2017). The
// off-diagonal entries below are shared verbatim as the top-left 6x6 block
// of both drag-augmented STMs.
func j2STM(chief ClassicalOrbitalElements, tau float64) ([][]float64, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return nil, err
	}
	f := computeOrbitalFactors(chief, tau)
	phi := identityMatrix(6)
	applyJ2Block(phi, f, n, tau)
	return phi, nil
}

// applyJ2Block writes the J2 off-diagonal terms into a pre-identity 6x6 (or
// larger, top-left 6x6 sub-block of a larger) matrix.
func applyJ2Block(phi [][]float64, f orbitalFactors, n, tau float64) {
	ap := f.apsidal
	kappa := f.kappa

	phi[IdxDLambda][IdxDA] = -(1.5*n + 3.5*kappa*f.e*f.p) * tau
	phi[IdxDLambda][IdxDEx] = kappa * ap.exI * f.f * f.g * f.p * tau
	phi[IdxDLambda][IdxDEy] = kappa * ap.eyI * f.f * f.g * f.p * tau
	phi[IdxDLambda][IdxDIx] = -kappa * f.f * f.s * tau

	phi[IdxDEx][IdxDA] = 3.5 * kappa * ap.eyF * f.q * tau
	phi[IdxDEx][IdxDEx] = ap.cosWT - 4*kappa*ap.exI*ap.eyF*f.g*f.q*tau
	phi[IdxDEx][IdxDEy] = -ap.sinWT - 4*kappa*ap.eyI*ap.eyF*f.g*f.q*tau
	phi[IdxDEx][IdxDIx] = 5 * kappa * ap.eyF * f.s * tau

	phi[IdxDEy][IdxDA] = -3.5 * kappa * ap.exF * f.q * tau
	phi[IdxDEy][IdxDEx] = ap.sinWT + 4*kappa*ap.exI*ap.exF*f.g*f.q*tau
	phi[IdxDEy][IdxDEy] = ap.cosWT + 4*kappa*ap.eyI*ap.exF*f.g*f.q*tau
	phi[IdxDEy][IdxDIx] = -5 * kappa * ap.exF * f.s * tau

	phi[IdxDIy][IdxDA] = 3.5 * kappa * f.s * tau
	phi[IdxDIy][IdxDEx] = -4 * kappa * ap.exI * f.g * f.s * tau
	phi[IdxDIy][IdxDEy] = -4 * kappa * ap.eyI * f.g * f.s * tau
	phi[IdxDIy][IdxDIx] = 2 * kappa * f.t * tau
}

// idxDaDotDrag is the augmented row/column index appended by the eccentric
// and arbitrary drag STMs.
const idxDaDotDrag = 6

// dragEccentricSTM returns the 7x7 eccentric-drag STM (Appendix C), valid
// only for e >= dragArbitraryMinEccentricity; see ValidateTargetingConfig
// and selectSTM for the model-selection rule.
func dragEccentricSTM(chief ClassicalOrbitalElements, tau float64) ([][]float64, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return nil, err
	}
	e := chief.Eccentricity
	f := computeOrbitalFactors(chief, tau)
	ap := f.apsidal
	kappa := f.kappa

	phi := identityMatrix(int(dimDragEcc))
	applyJ2Block(phi, f, n, tau)

	oneMinusE := 1 - e
	tau2 := tau * tau

	cosWF, sinWF := math.Cos(ap.omegaF), math.Sin(ap.omegaF)

	phi[IdxDA][idxDaDotDrag] = tau
	phi[IdxDLambda][idxDaDotDrag] = (-0.75*n - 1.75*kappa*f.eta*f.p + 1.5*kappa*e*oneMinusE*f.eta*f.g*f.p) * tau2
	phi[IdxDEx][idxDaDotDrag] = oneMinusE*cosWF*tau - kappa*ap.eyF*f.q*(-1.75+2*e*oneMinusE*f.g)*tau2
	phi[IdxDEy][idxDaDotDrag] = oneMinusE*sinWF*tau + kappa*ap.exF*f.q*(-1.75+2*e*oneMinusE*f.g)*tau2
	phi[IdxDIx][idxDaDotDrag] = 0
	phi[IdxDIy][idxDaDotDrag] = kappa * f.s * (1.75 - 2*e*oneMinusE*f.g) * tau2

	return phi, nil
}

// dragArbitrarySTM returns the 9x9 arbitrary-eccentricity drag STM
// (Appendix D), augmenting with (δȧ, δė_x, δė_y) and dropping the
// circularization assumption the 7x7 model makes. The δė_y column
// intentionally omits the δλ and δi_y coupling terms present in the δė_x
// column; this asymmetry is documented in the source appendix, not a typo.
func dragArbitrarySTM(chief ClassicalOrbitalElements, tau float64) ([][]float64, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return nil, err
	}
	f := computeOrbitalFactors(chief, tau)
	ap := f.apsidal
	kappa := f.kappa

	const (
		idxDaDot  = 6
		idxDexDot = 7
		idxDeyDot = 8
	)

	phi := identityMatrix(int(dimDragArb))
	applyJ2Block(phi, f, n, tau)

	tau2 := tau * tau

	// δȧ column: linear δa drift, and the secular entries the linearly
	// growing δa drives through the J2 block, integrated over tau (each
	// J2 per-tau sensitivity picks up a factor tau²/2).
	phi[IdxDA][idxDaDot] = tau
	phi[IdxDLambda][idxDaDot] = (-0.75*n - 1.75*kappa*f.eta*f.p) * tau2
	phi[IdxDEx][idxDaDot] = 1.75 * kappa * ap.eyF * f.q * tau2
	phi[IdxDEy][idxDaDot] = -1.75 * kappa * ap.exF * f.q * tau2
	phi[IdxDIy][idxDaDot] = 1.75 * kappa * f.s * tau2

	// δė_x column: the accumulated eccentricity offset rotates with the
	// apsidal drift (cosWT/sinWT terms) and couples into δλ via κ·e·FGP
	// and into δi_y via κS.
	phi[IdxDLambda][idxDexDot] = 0.5 * kappa * ap.exI * f.f * f.g * f.p * tau2
	phi[IdxDEx][idxDexDot] = ap.cosWT*tau - 2*kappa*ap.exI*ap.eyF*f.g*f.q*tau2
	phi[IdxDEy][idxDexDot] = ap.sinWT*tau + 2*kappa*ap.exI*ap.exF*f.g*f.q*tau2
	phi[IdxDIy][idxDexDot] = -2 * kappa * ap.exI * f.g * f.s * tau2

	// δė_y column: the documented asymmetric case, lacking the δλ and
	// δi_y coupling terms present in the δė_x column above.
	phi[IdxDEx][idxDeyDot] = -ap.sinWT*tau - 2*kappa*ap.eyI*ap.eyF*f.g*f.q*tau2
	phi[IdxDEy][idxDeyDot] = ap.cosWT*tau + 2*kappa*ap.eyI*ap.exF*f.g*f.q*tau2

	return phi, nil
}

// identityMatrix allocates an n x n identity matrix.
func identityMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}
