package roekit

import (
	"math"
	"testing"
)

func TestSolveRendezvousRejectsNonPositiveTOF(t *testing.T) {
	chief := sampleChief()
	_, err := SolveRendezvous(RelativeState{}, Vector3{}, chief, 0, DefaultTargetingOptions())
	if err == nil {
		t.Fatal("expected error for tof=0")
	}
	_, err = SolveRendezvous(RelativeState{}, Vector3{}, chief, -10, DefaultTargetingOptions())
	if err == nil {
		t.Fatal("expected error for negative tof")
	}
}

func TestSolveRendezvousInvariants(t *testing.T) {
	chief := sampleChief()
	n, _ := chief.MeanMotion()
	period := 2 * math.Pi / n

	initial := RelativeState{
		Position: Vector3{X: 100, Y: -200, Z: 50},
		Velocity: Vector3{},
	}
	target := Vector3{X: 500, Y: 1000, Z: -100}

	leg, err := SolveRendezvous(initial, target, chief, 0.5*period, DefaultTargetingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if leg.Iterations < 1 {
		t.Fatalf("Iterations = %d, want >= 1", leg.Iterations)
	}
	if leg.TotalDeltaV < 0 {
		t.Fatalf("TotalDeltaV = %g, want >= 0", leg.TotalDeltaV)
	}
	if leg.Converged && leg.PositionError >= DefaultTargetingOptions().PositionTolerance {
		t.Fatalf("Converged=true but PositionError=%g exceeds tolerance", leg.PositionError)
	}
	for _, v := range []float64{leg.Burn1.DeltaV.X, leg.Burn1.DeltaV.Y, leg.Burn1.DeltaV.Z, leg.Burn2.DeltaV.X, leg.Burn2.DeltaV.Y, leg.Burn2.DeltaV.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("burn component is not finite: %g", v)
		}
	}
}

func TestDampingFactorSchedule(t *testing.T) {
	cases := map[int]float64{0: 0.5, 2: 0.5, 3: 0.8, 9: 0.8, 10: 1.0, 50: 1.0}
	for iter, want := range cases {
		if got := dampingFactor(iter); got != want {
			t.Fatalf("dampingFactor(%d) = %g, want %g", iter, got, want)
		}
	}
}

func TestClampDeltaV(t *testing.T) {
	dv := Vector3{X: 100, Y: -100, Z: 5}
	clamped := clampDeltaV(dv)
	if clamped.X != maxDeltaVComponent || clamped.Y != -maxDeltaVComponent || clamped.Z != 5 {
		t.Fatalf("clampDeltaV(%+v) = %+v", dv, clamped)
	}
}

func TestOptimizeTOFReturnsNonNegativeCost(t *testing.T) {
	chief := sampleChief()
	initial := RelativeState{Position: Vector3{X: 100, Y: -200, Z: 50}}
	target := Vector3{X: 500, Y: 1000, Z: -100}

	leg, err := OptimizeTOF(initial, target, chief, DefaultTargetingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if leg.TotalDeltaV < 0 {
		t.Fatalf("TotalDeltaV = %g, want >= 0", leg.TotalDeltaV)
	}
	if leg.TOF <= 0 {
		t.Fatalf("TOF = %g, want > 0", leg.TOF)
	}
}

// TestOptimizeTOFAgreesWithMultiStartOnConvexLandscape is spec §8 property
// 8: on a convex short-range LEO transfer, OptimizeTOF's single golden-section
// search and OptimizeTOFMultiStart's sample-then-refine search should settle
// on the same total-delta-v minimum (within 1%), since multi-start's refine
// step is itself a golden-section search and a convex landscape has no
// competing local minimum for the two to disagree about.
func TestOptimizeTOFAgreesWithMultiStartOnConvexLandscape(t *testing.T) {
	chief := ClassicalOrbitalElements{
		SemiMajorAxis: 6778000,
		Eccentricity:  0.0005,
		Inclination:   Deg2rad(51.6),
		RAAN:          Deg2rad(45),
		ArgPerigee:    Deg2rad(30),
		MeanAnomaly:   0,
		Mu:            MuEarth,
	}
	initial := RelativeState{Position: Vector3{X: 50, Y: -300, Z: 20}}
	target := Vector3{}

	single, err := OptimizeTOF(initial, target, chief, DefaultTargetingOptions())
	if err != nil {
		t.Fatalf("OptimizeTOF error: %s", err)
	}
	if !single.Converged {
		t.Fatalf("OptimizeTOF did not converge: %+v", single)
	}

	multi, err := OptimizeTOFMultiStart(initial, target, chief, DefaultTargetingOptions(), 5)
	if err != nil {
		t.Fatalf("OptimizeTOFMultiStart error: %s", err)
	}
	if !multi.Converged {
		t.Fatalf("OptimizeTOFMultiStart did not converge: %+v", multi)
	}

	diff := math.Abs(single.TotalDeltaV - multi.TotalDeltaV)
	tolerance := 0.01 * math.Max(single.TotalDeltaV, multi.TotalDeltaV)
	if diff > tolerance {
		t.Fatalf("OptimizeTOF = %g m/s, OptimizeTOFMultiStart = %g m/s, differ by more than 1%%", single.TotalDeltaV, multi.TotalDeltaV)
	}
}

func TestOptimizeTOFMultiStartFallsBackWhenNoSampleConverges(t *testing.T) {
	chief := sampleChief()
	initial := RelativeState{Position: Vector3{X: 100, Y: -200, Z: 50}}
	target := Vector3{X: 500, Y: 1000, Z: -100}

	opts := DefaultTargetingOptions()
	opts.MaxIterations = 1
	opts.PositionTolerance = 1e-12 // unreasonably tight, forces non-convergence

	leg, err := OptimizeTOFMultiStart(initial, target, chief, opts, 5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if leg.TOF <= 0 {
		t.Fatalf("TOF = %g, want > 0 even on fallback", leg.TOF)
	}
}
