package roekit

import (
	"math"

	"github.com/sakobu/roekit/internal/linalg"
	"github.com/sakobu/roekit/tools"
)

// This file implements §4.F's two-impulse shooter and time-of-flight
// optimizer: Newton shooting with a central-difference Jacobian, damped
// corrections, a gradient-descent fallback on a singular Jacobian, and a
// golden-section search over time of flight (with an optional multi-start
// refinement) minimizing total delta-v.

const (
	// maxDeltaVComponent caps each RIC delta-v component the shooter will
	// accept from its initial guess, clamping runaway guesses to +-10 m/s
	// per component before they enter the Newton loop.
	maxDeltaVComponent = 10.0
	// jacobianEps is the central-difference perturbation, in m/s, used to
	// build the shooter's 3x3 position-vs-delta-v Jacobian.
	jacobianEps = 1e-4
)

// dampingFactor implements the shooter's damping schedule: aggressive
// damping for the first few iterations while the Newton step is least
// trustworthy, relaxing to a full step once it has settled.
func dampingFactor(iter int) float64 {
	switch {
	case iter < 3:
		return 0.5
	case iter < 10:
		return 0.8
	default:
		return 1.0
	}
}

func clampDeltaV(dv Vector3) Vector3 {
	clamp := func(x float64) float64 {
		if x > maxDeltaVComponent {
			return maxDeltaVComponent
		}
		if x < -maxDeltaVComponent {
			return -maxDeltaVComponent
		}
		return x
	}
	return Vector3{X: clamp(dv.X), Y: clamp(dv.Y), Z: clamp(dv.Z)}
}

// SolveRendezvous targets targetPos at arrival time tof from initialRIC,
// iterating the departure burn dv1 via Newton shooting on a
// central-difference Jacobian until the arrival position error falls below
// options.PositionTolerance, or until options.MaxIterations is exhausted.
// Non-convergence is not an error: the returned leg has Converged=false and
// carries the last iterate for diagnostics.
func SolveRendezvous(initialRIC RelativeState, targetPos Vector3, chief ClassicalOrbitalElements, tof float64, options TargetingOptions) (ManeuverLeg, error) {
	if err := chief.Validate(); err != nil {
		return ManeuverLeg{}, err
	}
	if tof <= 0 {
		return ManeuverLeg{}, &KernelError{Kind: NegativeTime, Field: "tof", Value: tof, Msg: "time of flight must be positive"}
	}

	initialROE, err := RicToROE(chief, initialRIC)
	if err != nil {
		return ManeuverLeg{}, err
	}

	n, err := chief.MeanMotion()
	if err != nil {
		return ManeuverLeg{}, err
	}

	dv1Guess := tools.ClohessyWiltshireTwoImpulse(
		initialRIC.Position.slice(), initialRIC.Velocity.slice(), targetPos.slice(), tof, n)
	dv1 := clampDeltaV(vector3FromSlice(dv1Guess))

	maxIter := options.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	var arrivalRIC RelativeState
	var arrivalChief ClassicalOrbitalElements
	var posErr Vector3
	converged := false
	iterations := 0

	evaluate := func(dv Vector3) (RelativeState, ClassicalOrbitalElements, error) {
		roeAfter, err := ApplyDeltaV(initialROE, dv, chief)
		if err != nil {
			return RelativeState{}, ClassicalOrbitalElements{}, err
		}
		roeArr, chiefArr, err := PropagateROEWithChief(roeAfter, chief, tof, options.PropagationOptions)
		if err != nil {
			return RelativeState{}, ClassicalOrbitalElements{}, err
		}
		ric, err := RoeToRIC(chiefArr, roeArr)
		if err != nil {
			return RelativeState{}, ClassicalOrbitalElements{}, err
		}
		return ric, chiefArr, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1
		arrivalRIC, arrivalChief, err = evaluate(dv1)
		if err != nil {
			return ManeuverLeg{}, err
		}
		posErr = targetPos.Sub(arrivalRIC.Position)
		if posErr.Norm() < options.PositionTolerance {
			converged = true
			break
		}

		jac, singular := centralDifferenceJacobian(dv1, evaluate, targetPos)
		var corr Vector3
		if singular {
			corr = posErr
		} else {
			inv, err := linalg.Invert3x3(jac)
			if err != nil {
				corr = posErr
			} else {
				corr = applyMatrix3(inv, posErr)
			}
		}
		damping := dampingFactor(iter)
		dv1 = dv1.Add(corr.Scale(damping))
	}

	dv2 := options.TargetVelocity.Sub(arrivalRIC.Velocity)

	burn1 := NewManeuver(dv1, chief)
	burn2 := NewManeuver(dv2, arrivalChief)

	leg := ManeuverLeg{
		TOF:            tof,
		TargetVelocity: options.TargetVelocity,
		Burn1:          burn1,
		Burn2:          burn2,
		TotalDeltaV:    burn1.Magnitude + burn2.Magnitude,
		Converged:      converged,
		Iterations:     iterations,
		PositionError:  posErr.Norm(),
	}
	return leg, nil
}

// centralDifferenceJacobian builds J[k,j] = d(pos_k)/d(dv1_j) by perturbing
// each delta-v component by +-jacobianEps and re-running the propagate-and-
// transform pipeline. singular is true if any perturbed evaluation failed,
// signalling the caller to fall back to a gradient-descent step.
func centralDifferenceJacobian(dv1 Vector3, evaluate func(Vector3) (RelativeState, ClassicalOrbitalElements, error), targetPos Vector3) ([3][3]float64, bool) {
	var jac [3][3]float64
	components := [3]func(Vector3, float64) Vector3{
		func(v Vector3, d float64) Vector3 { v.X += d; return v },
		func(v Vector3, d float64) Vector3 { v.Y += d; return v },
		func(v Vector3, d float64) Vector3 { v.Z += d; return v },
	}
	for j, perturb := range components {
		plus, _, errPlus := evaluate(perturb(dv1, jacobianEps))
		minus, _, errMinus := evaluate(perturb(dv1, -jacobianEps))
		if errPlus != nil || errMinus != nil {
			return jac, true
		}
		dPos := plus.Position.Sub(minus.Position).Scale(1 / (2 * jacobianEps))
		jac[0][j] = dPos.X
		jac[1][j] = dPos.Y
		jac[2][j] = dPos.Z
	}
	return jac, false
}

func applyMatrix3(m [3][3]float64, v Vector3) Vector3 {
	vs := v.slice()
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*vs[0] + m[i][1]*vs[1] + m[i][2]*vs[2]
	}
	return vector3FromSlice(out)
}

// OptimizeTOF searches the bracket [minOrbits, maxOrbits]*period (from
// options.TOFSearchRange) via golden-section search for the time of flight
// minimizing total delta-v, treating a non-converged or errored leg as
// infinite cost.
func OptimizeTOF(initialRIC RelativeState, targetPos Vector3, chief ClassicalOrbitalElements, options TargetingOptions) (ManeuverLeg, error) {
	n, err := chief.MeanMotion()
	if err != nil {
		return ManeuverLeg{}, err
	}
	period := 2 * math.Pi / n
	lo := options.TOFSearchRange.MinOrbits * period
	hi := options.TOFSearchRange.MaxOrbits * period
	tol := 0.01 * period

	cost := func(tof float64) (float64, ManeuverLeg) {
		leg, err := SolveRendezvous(initialRIC, targetPos, chief, tof, options)
		if err != nil || !leg.Converged {
			return math.Inf(1), leg
		}
		return leg.TotalDeltaV, leg
	}

	_, bestLeg := goldenSectionMinimize(lo, hi, tol, cost)
	return bestLeg, nil
}

// goldenSectionMinimize finds the tof in [lo,hi] minimizing cost, to within
// tolerance tol on the bracket width, returning the best sample evaluated.
func goldenSectionMinimize(lo, hi, tol float64, cost func(float64) (float64, ManeuverLeg)) (float64, ManeuverLeg) {
	const invPhi = 0.6180339887498949 // 1/golden ratio

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, legC := cost(c)
	fd, legD := cost(d)

	best := legC
	if fd < fc {
		best = legD
	}

	for math.Abs(b-a) > tol {
		if fc < fd {
			b = d
			d = c
			fd = fc
			legD = legC
			c = b - invPhi*(b-a)
			fc, legC = cost(c)
		} else {
			a = c
			c = d
			fc = fd
			legC = legD
			d = a + invPhi*(b-a)
			fd, legD = cost(d)
		}
		if fc < fd {
			best = legC
		} else {
			best = legD
		}
	}
	return (a + b) / 2, best
}

// OptimizeTOFMultiStart samples numSamples time-of-flight values uniformly
// across the search bracket, keeps the best converged sample, and refines it
// with a narrow (+-0.25 orbit) golden-section search around that sample.
// If no sample converges it falls back to an unconstrained OptimizeTOF.
func OptimizeTOFMultiStart(initialRIC RelativeState, targetPos Vector3, chief ClassicalOrbitalElements, options TargetingOptions, numSamples int) (ManeuverLeg, error) {
	if numSamples <= 0 {
		numSamples = 5
	}
	n, err := chief.MeanMotion()
	if err != nil {
		return ManeuverLeg{}, err
	}
	period := 2 * math.Pi / n
	lo := options.TOFSearchRange.MinOrbits * period
	hi := options.TOFSearchRange.MaxOrbits * period

	var bestLeg ManeuverLeg
	var bestTOF float64
	found := false

	for s := 0; s < numSamples; s++ {
		frac := float64(s) / float64(numSamples-1)
		if numSamples == 1 {
			frac = 0.5
		}
		tof := lo + frac*(hi-lo)
		leg, err := SolveRendezvous(initialRIC, targetPos, chief, tof, options)
		if err != nil || !leg.Converged {
			continue
		}
		if !found || leg.TotalDeltaV < bestLeg.TotalDeltaV {
			bestLeg = leg
			bestTOF = tof
			found = true
		}
	}

	if !found {
		return OptimizeTOF(initialRIC, targetPos, chief, options)
	}

	window := 0.25 * period
	narrowOptions := options
	narrowOptions.TOFSearchRange = TOFSearchRange{
		MinOrbits: math.Max(options.TOFSearchRange.MinOrbits, (bestTOF-window)/period),
		MaxOrbits: math.Min(options.TOFSearchRange.MaxOrbits, (bestTOF+window)/period),
	}
	refined, err := OptimizeTOF(initialRIC, targetPos, chief, narrowOptions)
	if err != nil || !refined.Converged {
		return bestLeg, nil
	}
	return refined, nil
}
