package roekit

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRicRoeRoundTrip(t *testing.T) {
	chief := sampleChief()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		roe := QuasiNonsingularROE{
			(rng.Float64() - 0.5) * 1e-3,
			(rng.Float64() - 0.5) * 1e-2,
			(rng.Float64() - 0.5) * 1e-3,
			(rng.Float64() - 0.5) * 1e-3,
			(rng.Float64() - 0.5) * 1e-3,
			(rng.Float64() - 0.5) * 1e-3,
		}
		ric, err := RoeToRIC(chief, roe)
		if err != nil {
			t.Fatalf("case %d: RoeToRIC error: %s", i, err)
		}
		back, err := RicToROE(chief, ric)
		if err != nil {
			t.Fatalf("case %d: RicToROE error: %s", i, err)
		}
		for k := 0; k < roeDim; k++ {
			if !scalar.EqualWithinAbs(roe[k], back[k], 1e-9) {
				t.Fatalf("case %d: component %d round trip: got %g, want %g", i, k, back[k], roe[k])
			}
		}
	}
}

// TestRoeToRICNearCircularLimit pins the transform to the familiar
// near-circular mapping: at e~0 the position rows reduce to
// R = a(δa - δe_x cosU - δe_y sinU), I = a(δλ + 2δe_x sinU - 2δe_y cosU),
// C = a(δi_x sinU - δi_y cosU), and the velocity rows to their an-scaled
// counterparts (with the -1.5·n·a·δa in-track drift term).
func TestRoeToRICNearCircularLimit(t *testing.T) {
	chief := sampleChief()
	chief.Eccentricity = 1e-8
	chief.ArgPerigee = 0
	chief.MeanAnomaly = Deg2rad(37)

	a := chief.SemiMajorAxis
	n, _ := chief.MeanMotion()
	nu, _ := chief.TrueAnomaly()
	u := chief.ArgPerigee + nu
	sinU, cosU := math.Sin(u), math.Cos(u)

	roe := QuasiNonsingularROE{2e-5, -4e-5, 1e-5, 3e-5, -2e-5, 1.5e-5}
	ric, err := RoeToRIC(chief, roe)
	if err != nil {
		t.Fatalf("RoeToRIC error: %s", err)
	}

	wantPos := Vector3{
		X: a * (roe[IdxDA] - roe[IdxDEx]*cosU - roe[IdxDEy]*sinU),
		Y: a * (roe[IdxDLambda] + 2*roe[IdxDEx]*sinU - 2*roe[IdxDEy]*cosU),
		Z: a * (roe[IdxDIx]*sinU - roe[IdxDIy]*cosU),
	}
	wantVel := Vector3{
		X: a * n * (roe[IdxDEx]*sinU - roe[IdxDEy]*cosU),
		Y: a * n * (-1.5*roe[IdxDA] + 2*roe[IdxDEx]*cosU + 2*roe[IdxDEy]*sinU),
		Z: a * n * (roe[IdxDIx]*cosU + roe[IdxDIy]*sinU),
	}

	// e=1e-8 perturbs the exact entries at relative order e; the states
	// here are a few hundred meters, so a millimeter bound is generous.
	tol := 1e-3
	for _, c := range []struct{ got, want float64 }{
		{ric.Position.X, wantPos.X}, {ric.Position.Y, wantPos.Y}, {ric.Position.Z, wantPos.Z},
		{ric.Velocity.X, wantVel.X}, {ric.Velocity.Y, wantVel.Y}, {ric.Velocity.Z, wantVel.Z},
	} {
		if !scalar.EqualWithinAbs(c.got, c.want, tol) {
			t.Fatalf("near-circular limit mismatch: got %g, want %g (state %+v)", c.got, c.want, ric)
		}
	}
}

func TestRoeToRICZeroIsZero(t *testing.T) {
	chief := sampleChief()
	ric, err := RoeToRIC(chief, QuasiNonsingularROE{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ric.Position.Norm() > 1e-9 || ric.Velocity.Norm() > 1e-9 {
		t.Fatalf("zero ROE should map to zero RIC state, got %+v", ric)
	}
}
