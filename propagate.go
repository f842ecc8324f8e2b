package roekit

import (
	"math"

	"github.com/sakobu/roekit/internal/linalg"
)

// This file implements §4.E: STM selection and application, plus the
// optional advance of the chief's own scalar elements alongside the ROE.

// selectSTM picks the STM matching the propagation options and chief
// eccentricity, per §4.E's selection rule: drag on selects the drag model
// named by options.Drag.Model (the eccentric model is rejected below
// dragArbitraryMinEccentricity rather than replaced by the arbitrary one);
// otherwise J2 on selects the J2 6x6; otherwise the Keplerian 6x6.
func selectSTM(chief ClassicalOrbitalElements, tau float64, options PropagationOptions) ([][]float64, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.IncludeDrag {
		e := chief.Eccentricity
		switch options.Drag.Model {
		case DragModelEccentric:
			if e < dragArbitraryMinEccentricity {
				return nil, &KernelError{Kind: DragMisconfigured, Field: "Eccentricity", Value: e,
					Msg: "eccentric drag model requires e >= 0.05"}
			}
			return dragEccentricSTM(chief, tau)
		case DragModelArbitrary:
			return dragArbitrarySTM(chief, tau)
		default:
			return nil, &KernelError{Kind: DragMisconfigured, Msg: "unknown drag model"}
		}
	}
	if options.IncludeJ2 {
		return j2STM(chief, tau)
	}
	return keplerianSTM(chief, tau)
}

// augmentedROE pads or truncates a 6-vector ROE into the length an STM
// expects (6, 7, or 9), leaving drag-rate components at zero unless the
// caller supplies them via extra.
func augmentedROE(roe QuasiNonsingularROE, dim int, extra []float64) []float64 {
	v := make([]float64, dim)
	copy(v, roe[:])
	copy(v[roeDim:], extra)
	return v
}

// PropagateROE advances a 6-component ROE state by Δt seconds under the
// chosen perturbation model, returning a new ROE (augmented drag-rate
// components, if any, are dropped from the returned 6-vector since callers
// work in terms of QuasiNonsingularROE).
func PropagateROE(roe0 QuasiNonsingularROE, chief ClassicalOrbitalElements, dt float64, options PropagationOptions) (QuasiNonsingularROE, error) {
	if err := chief.Validate(); err != nil {
		return QuasiNonsingularROE{}, err
	}
	if dt < 0 {
		return QuasiNonsingularROE{}, &KernelError{Kind: NegativeTime, Field: "dt", Value: dt, Msg: "propagation time must be non-negative"}
	}
	phi, err := selectSTM(chief, dt, options)
	if err != nil {
		return QuasiNonsingularROE{}, err
	}
	dim := len(phi)
	var extra []float64
	if options.IncludeDrag {
		switch options.Drag.Model {
		case DragModelEccentric:
			extra = []float64{options.Drag.DaDotDrag}
		case DragModelArbitrary:
			extra = []float64{options.Drag.DaDotDrag, options.Drag.DexDotDrag, options.Drag.DeyDotDrag}
		}
	}
	in := augmentedROE(roe0, dim, extra)
	out := linalg.MatVecMul(phi, in)
	var result QuasiNonsingularROE
	copy(result[:], out[:roeDim])
	return result, nil
}

// PropagateROEWithChief advances both the ROE and the chief's own scalar
// elements: mean anomaly always, argument of perigee and RAAN under the J2
// secular rate when J2 is included, and (as an implementation extension
// beyond the paper) semi-major-axis decay when ChiefAbsoluteDaDot is set.
func PropagateROEWithChief(roe0 QuasiNonsingularROE, chief ClassicalOrbitalElements, dt float64, options PropagationOptions) (QuasiNonsingularROE, ClassicalOrbitalElements, error) {
	roe, err := PropagateROE(roe0, chief, dt, options)
	if err != nil {
		return QuasiNonsingularROE{}, ClassicalOrbitalElements{}, err
	}
	n, err := chief.MeanMotion()
	if err != nil {
		return QuasiNonsingularROE{}, ClassicalOrbitalElements{}, err
	}

	newChief := chief
	newChief.MeanAnomaly = normalizeAngle(chief.MeanAnomaly + n*dt)

	if options.IncludeJ2 {
		f := computeOrbitalFactors(chief, dt)
		newChief.ArgPerigee = normalizeAngle(chief.ArgPerigee + f.kappa*f.q*dt)
		newChief.RAAN = normalizeAngle(chief.RAAN - 2*f.kappa*f.r*dt)
	}

	if options.ChiefAbsoluteDaDot != 0 {
		newChief.SemiMajorAxis = chief.SemiMajorAxis + options.ChiefAbsoluteDaDot*dt
		h2 := chief.Mu * newChief.SemiMajorAxis * (1 - chief.Eccentricity*chief.Eccentricity)
		if h2 > 0 {
			newChief.SpecificAngularMomentum = math.Sqrt(h2)
		}
	}

	return roe, newChief, nil
}
