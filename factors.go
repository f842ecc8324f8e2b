package roekit

import "math"

// orbitalFactors bundles the chief-orbit-dependent scalars every STM reuses,
// computed once per (chief, τ) pair so the 6x6/7x7/9x9 assembly functions
// don't recompute trig and power terms for every entry (§4.B).
type orbitalFactors struct {
	eta float64 // η = √(1-e²)
	p   float64 // P = 3cos²i - 1
	q   float64 // Q = 5cos²i - 1
	r   float64 // R = cos i
	s   float64 // S = 2 sin i cos i
	t   float64 // T = sin²i
	e   float64 // E = 1+η
	f   float64 // F = 4+3η
	g   float64 // G = 1/η²

	kappa float64 // κ, the J2 secular coefficient

	apsidal apsidalState
}

// apsidalState is the chief's apsidal-rotation bookkeeping over a
// propagation interval τ: the drifted argument of perigee and the
// eccentricity-vector components before and after the drift.
type apsidalState struct {
	omegaDot float64 // ω̇ = κQ
	omegaF   float64 // ω_f = ω + ω̇τ
	exI      float64 // e·cos ω
	eyI      float64 // e·sin ω
	exF      float64 // e·cos ω_f
	eyF      float64 // e·sin ω_f
	cosWT    float64 // cos(ω̇τ)
	sinWT    float64 // sin(ω̇τ)
}

// computeOrbitalFactors evaluates §4.B's factor library for chief at
// propagation time tau (seconds). The chief must already have passed
// ClassicalOrbitalElements.Validate (a>0, e in [0,1), mu>0, non-equatorial);
// this function does not re-check those preconditions.
func computeOrbitalFactors(chief ClassicalOrbitalElements, tau float64) orbitalFactors {
	e := chief.Eccentricity
	i := chief.Inclination
	a := chief.SemiMajorAxis
	mu := chief.Mu

	cosI := math.Cos(i)
	sinI := math.Sin(i)
	eta := math.Sqrt(1 - e*e)

	f := orbitalFactors{
		eta: eta,
		p:   3*cosI*cosI - 1,
		q:   5*cosI*cosI - 1,
		r:   cosI,
		s:   2 * sinI * cosI,
		t:   sinI * sinI,
		e:   1 + eta,
		f:   4 + 3*eta,
		g:   1 / (eta * eta),
	}

	f.kappa = (3.0 / 4.0) * J2 * REarth * REarth * math.Sqrt(mu) / (math.Pow(a, 3.5) * eta * eta * eta * eta)

	omegaDot := f.kappa * f.q
	omegaF := chief.ArgPerigee + omegaDot*tau
	omegaWT := omegaDot * tau

	f.apsidal = apsidalState{
		omegaDot: omegaDot,
		omegaF:   omegaF,
		exI:      e * math.Cos(chief.ArgPerigee),
		eyI:      e * math.Sin(chief.ArgPerigee),
		exF:      e * math.Cos(omegaF),
		eyF:      e * math.Sin(omegaF),
		cosWT:    math.Cos(omegaWT),
		sinWT:    math.Sin(omegaWT),
	}

	return f
}
