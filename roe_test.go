package roekit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func sampleChief() ClassicalOrbitalElements {
	return ClassicalOrbitalElements{
		SemiMajorAxis: 7000e3,
		Eccentricity:  0.001,
		Inclination:   Deg2rad(98),
		RAAN:          Deg2rad(10),
		ArgPerigee:    Deg2rad(30),
		MeanAnomaly:   Deg2rad(0),
		Mu:            MuEarth,
	}
}

func TestClassicalOrbitalElementsValidate(t *testing.T) {
	c := sampleChief()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid chief, got %s", err)
	}

	bad := c
	bad.SemiMajorAxis = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative semi-major axis")
	}

	bad = c
	bad.Eccentricity = 1.2
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for eccentricity out of range")
	}

	bad = c
	bad.Mu = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-positive mu")
	}

	bad = c
	bad.Inclination = Deg2rad(0.01)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for near-equatorial inclination")
	}

	bad = c
	bad.Inclination = Deg2rad(179.99)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for near-equatorial (retrograde) inclination")
	}
}

func TestQuasiNonsingularROEAdd(t *testing.T) {
	a := QuasiNonsingularROE{1, 2, 3, 4, 5, 6}
	b := QuasiNonsingularROE{1, 1, 1, 1, 1, 1}
	sum := a.Add(b)
	want := QuasiNonsingularROE{2, 3, 4, 5, 6, 7}
	for i := range sum {
		if !scalar.EqualWithinAbs(sum[i], want[i], 1e-12) {
			t.Fatalf("Add()[%d] = %g, want %g", i, sum[i], want[i])
		}
	}
}

func TestVector3Arithmetic(t *testing.T) {
	v := Vector3{X: 3, Y: 4, Z: 0}
	if !scalar.EqualWithinAbs(v.Norm(), 5, 1e-12) {
		t.Fatalf("Norm() = %g, want 5", v.Norm())
	}
	sum := v.Add(Vector3{X: 1, Y: 1, Z: 1})
	if sum != (Vector3{X: 4, Y: 5, Z: 1}) {
		t.Fatalf("Add() = %+v", sum)
	}
	diff := v.Sub(Vector3{X: 1, Y: 1, Z: 1})
	if diff != (Vector3{X: 2, Y: 3, Z: -1}) {
		t.Fatalf("Sub() = %+v", diff)
	}
	scaled := v.Scale(2)
	if scaled != (Vector3{X: 6, Y: 8, Z: 0}) {
		t.Fatalf("Scale() = %+v", scaled)
	}
}

func TestVector3SliceRoundTrip(t *testing.T) {
	v := Vector3{X: 1.5, Y: -2.5, Z: 3.5}
	rt := vector3FromSlice(v.slice())
	if rt != v {
		t.Fatalf("slice round trip = %+v, want %+v", rt, v)
	}
}

func TestMeanMotionMethod(t *testing.T) {
	c := sampleChief()
	n, err := c.MeanMotion()
	if err != nil {
		t.Fatalf("MeanMotion() error: %s", err)
	}
	want := math.Sqrt(c.Mu / math.Pow(c.SemiMajorAxis, 3))
	if !scalar.EqualWithinAbs(n, want, 1e-15) {
		t.Fatalf("MeanMotion() = %g, want %g", n, want)
	}
}
