package roekit

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestGenerateLegTrajectoryEndpointCount(t *testing.T) {
	chief := sampleChief()
	leg := ManeuverLeg{TOF: 1000, Burn1: Maneuver{DeltaV: Vector3{X: 0.1}}}
	points, err := GenerateLegTrajectory(leg, chief, Vector3{X: 100}, Vector3{}, DefaultPropagationOptions(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(points) != 10 {
		t.Fatalf("len(points) = %d, want 10", len(points))
	}
	if points[0].Time != 0 {
		t.Fatalf("points[0].Time = %g, want 0", points[0].Time)
	}
	if !scalar.EqualWithinAbs(points[len(points)-1].Time, leg.TOF, 1e-9) {
		t.Fatalf("last point time = %g, want %g", points[len(points)-1].Time, leg.TOF)
	}
}

func TestGenerateLegTrajectoryRejectsTooFewPoints(t *testing.T) {
	chief := sampleChief()
	leg := ManeuverLeg{TOF: 100}
	points, err := GenerateLegTrajectory(leg, chief, Vector3{}, Vector3{}, DefaultPropagationOptions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2 (numPoints clamped to minimum)", len(points))
	}
}

func TestSampleTrajectoryUniformEndpoints(t *testing.T) {
	traj := []TrajectoryPoint{
		{Time: 0, Position: Vector3{X: 0}},
		{Time: 10, Position: Vector3{X: 100}},
		{Time: 20, Position: Vector3{X: 50}},
	}
	out := SampleTrajectoryUniform(traj, 5)
	if len(out) != 5 {
		t.Fatalf("len(out) = %d, want 5", len(out))
	}
	if !scalar.EqualWithinAbs(out[0].Time, 0, 1e-9) {
		t.Fatalf("out[0].Time = %g, want 0", out[0].Time)
	}
	if !scalar.EqualWithinAbs(out[len(out)-1].Time, 20, 1e-9) {
		t.Fatalf("last sample time = %g, want 20", out[len(out)-1].Time)
	}
}

func TestSampleTrajectoryUniformEmpty(t *testing.T) {
	if out := SampleTrajectoryUniform(nil, 5); out != nil {
		t.Fatalf("expected nil for empty input, got %+v", out)
	}
}

func TestGenerateMissionTrajectoryConcatenatesTimeOffsets(t *testing.T) {
	chief := sampleChief()
	plan := MissionPlan{Legs: []ManeuverLeg{
		{TOF: 500, To: Waypoint{Position: Vector3{X: 100}}, Burn2: NewManeuver(Vector3{}, chief)},
		{TOF: 500, To: Waypoint{Position: Vector3{X: 200}}, Burn2: NewManeuver(Vector3{}, chief)},
	}}
	traj, err := GenerateMissionTrajectory(plan, chief, Vector3{}, Vector3{}, DefaultPropagationOptions(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(traj) != 10 {
		t.Fatalf("len(traj) = %d, want 10", len(traj))
	}
	if traj[5].Time < traj[4].Time {
		t.Fatalf("trajectory time must be non-decreasing across legs: %g then %g", traj[4].Time, traj[5].Time)
	}
}
