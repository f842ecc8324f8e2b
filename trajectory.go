package roekit

// This file implements §4.F's trajectory synthesis: dense time-sampled RIC
// states across a leg or a whole mission, plus uniform resampling of a
// synthesized trajectory by binary search.

// GenerateLegTrajectory samples numPoints states (including both endpoints)
// across leg, starting from the state immediately after the departure burn
// (position0, velocity0+leg.Burn1.DeltaV) and propagating forward under
// options. The arrival burn is not applied here: the mission-level generator
// folds it in when chaining legs.
func GenerateLegTrajectory(leg ManeuverLeg, chief0 ClassicalOrbitalElements, position0, velocity0 Vector3, options PropagationOptions, numPoints int) ([]TrajectoryPoint, error) {
	if numPoints < 2 {
		numPoints = 2
	}
	postBurnVelocity := velocity0.Add(leg.Burn1.DeltaV)
	roe0, err := RicToROE(chief0, RelativeState{Position: position0, Velocity: postBurnVelocity})
	if err != nil {
		return nil, err
	}

	points := make([]TrajectoryPoint, numPoints)
	points[0] = TrajectoryPoint{Time: 0, Position: position0, Velocity: postBurnVelocity}

	for i := 1; i < numPoints; i++ {
		t := float64(i) * leg.TOF / float64(numPoints-1)
		roe, chiefAt, err := PropagateROEWithChief(roe0, chief0, t, options)
		if err != nil {
			return nil, err
		}
		ric, err := RoeToRIC(chiefAt, roe)
		if err != nil {
			return nil, err
		}
		points[i] = TrajectoryPoint{Time: t, Position: ric.Position, Velocity: ric.Velocity}
	}
	return points, nil
}

// GenerateMissionTrajectory concatenates GenerateLegTrajectory across every
// leg of plan, offsetting each leg's sample times by the cumulative time of
// the legs before it, and advancing the carried state to the waypoint the
// leg targeted (its position and its arrival velocity, zero by default)
// before sampling the next leg.
func GenerateMissionTrajectory(plan MissionPlan, chief0 ClassicalOrbitalElements, position0, velocity0 Vector3, options PropagationOptions, pointsPerLeg int) ([]TrajectoryPoint, error) {
	var traj []TrajectoryPoint
	timeOffset := 0.0
	position := position0
	velocity := velocity0
	chief := chief0

	for _, leg := range plan.Legs {
		legPoints, err := GenerateLegTrajectory(leg, chief, position, velocity, options, pointsPerLeg)
		if err != nil {
			return nil, err
		}
		for _, p := range legPoints {
			p.Time += timeOffset
			traj = append(traj, p)
		}
		timeOffset += leg.TOF
		position = leg.To.Position
		velocity = leg.To.Velocity
		chief = leg.Burn2.ChiefAtBurn
	}
	return traj, nil
}

// GenerateTrajectoryWithManeuvers is GenerateMissionTrajectory's variant for
// hosts that want the burn markers alongside the dense samples: it returns
// the same trajectory plus the ordered list of maneuvers (both burns of
// every leg) with their cumulative mission time, for rendering burn icons on
// a timeline without recomputing leg offsets.
type TimedManeuver struct {
	Time     float64
	Maneuver Maneuver
}

func GenerateTrajectoryWithManeuvers(plan MissionPlan, chief0 ClassicalOrbitalElements, position0, velocity0 Vector3, options PropagationOptions, pointsPerLeg int) ([]TrajectoryPoint, []TimedManeuver, error) {
	traj, err := GenerateMissionTrajectory(plan, chief0, position0, velocity0, options, pointsPerLeg)
	if err != nil {
		return nil, nil, err
	}
	var maneuvers []TimedManeuver
	timeOffset := 0.0
	for _, leg := range plan.Legs {
		maneuvers = append(maneuvers,
			TimedManeuver{Time: timeOffset, Maneuver: leg.Burn1},
			TimedManeuver{Time: timeOffset + leg.TOF, Maneuver: leg.Burn2},
		)
		timeOffset += leg.TOF
	}
	return traj, maneuvers, nil
}

// SampleTrajectoryUniform resamples traj (assumed sorted by Time) to N
// uniformly-spaced points spanning its original time range, interpolating
// position and velocity linearly between the bracketing samples located by
// binary search.
func SampleTrajectoryUniform(traj []TrajectoryPoint, n int) []TrajectoryPoint {
	if len(traj) == 0 || n <= 0 {
		return nil
	}
	if len(traj) == 1 || n == 1 {
		out := make([]TrajectoryPoint, n)
		for i := range out {
			out[i] = traj[0]
		}
		return out
	}

	t0, t1 := traj[0].Time, traj[len(traj)-1].Time
	out := make([]TrajectoryPoint, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		t := t0 + frac*(t1-t0)
		out[i] = interpolateAt(traj, t)
	}
	return out
}

// interpolateAt binary-searches traj for the bracket containing t and
// linearly interpolates position and velocity within it.
func interpolateAt(traj []TrajectoryPoint, t float64) TrajectoryPoint {
	lo, hi := 0, len(traj)-1
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if traj[mid].Time <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	a, b := traj[lo], traj[hi]
	if b.Time == a.Time {
		return a
	}
	frac := (t - a.Time) / (b.Time - a.Time)
	return TrajectoryPoint{
		Time:     t,
		Position: a.Position.Add(b.Position.Sub(a.Position).Scale(frac)),
		Velocity: a.Velocity.Add(b.Velocity.Sub(a.Velocity).Scale(frac)),
	}
}
