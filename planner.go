package roekit

// This file implements §4.F's multi-waypoint planner: chaining legs through
// an ordered waypoint list, incremental replanning when a mid-mission
// waypoint changes, and mission-time queries over an assembled MissionPlan.

// PlanMission targets each waypoint in order, starting from initialRIC and
// chief. A waypoint with TOFHint set is targeted with SolveRendezvous at
// that fixed time of flight; otherwise OptimizeTOF chooses the time of
// flight. The state and chief carried into leg k+1 are the arrival state of
// leg k (waypoint_k's position and velocity, and the chief elements at
// burn2). An empty waypoint list returns an already-converged empty plan.
func PlanMission(initialRIC RelativeState, waypoints []Waypoint, chief ClassicalOrbitalElements, options TargetingOptions) (MissionPlan, error) {
	if len(waypoints) == 0 {
		return MissionPlan{Legs: nil, TotalDeltaV: 0, TotalTime: 0, Converged: true}, nil
	}

	plan := MissionPlan{}
	state := initialRIC
	currentChief := chief

	for _, wp := range waypoints {
		leg, err := targetWaypoint(state, wp, currentChief, options)
		if err != nil {
			return MissionPlan{}, err
		}
		leg.From = Waypoint{Position: state.Position, Velocity: state.Velocity}
		leg.To = wp
		plan.Legs = append(plan.Legs, leg)

		state = RelativeState{Position: wp.Position, Velocity: wp.Velocity}
		currentChief = leg.Burn2.ChiefAtBurn
	}

	plan.summarize()
	return plan, nil
}

// targetWaypoint dispatches to SolveRendezvous at a fixed TOF when the
// waypoint supplies one, or to OptimizeTOF otherwise.
func targetWaypoint(state RelativeState, wp Waypoint, chief ClassicalOrbitalElements, options TargetingOptions) (ManeuverLeg, error) {
	opts := options
	opts.TargetVelocity = wp.Velocity
	if wp.TOFHint > 0 {
		return SolveRendezvous(state, wp.Position, chief, wp.TOFHint, opts)
	}
	return OptimizeTOF(state, wp.Position, chief, opts)
}

// ReplanFromWaypoint keeps legs[0:modifiedIndex) of existingPlan as-is, walks
// them forward to recover the state and chief at the modification point, and
// re-plans newWaypoints[modifiedIndex:] from there. modifiedIndex<=0
// triggers a full replan from state0/chief0 instead.
func ReplanFromWaypoint(existingPlan MissionPlan, modifiedIndex int, newWaypoints []Waypoint, chief0 ClassicalOrbitalElements, state0 RelativeState, options TargetingOptions) (MissionPlan, error) {
	if modifiedIndex <= 0 {
		return PlanMission(state0, newWaypoints, chief0, options)
	}

	kept := modifiedIndex
	if kept > len(existingPlan.Legs) {
		kept = len(existingPlan.Legs)
	}

	state := state0
	chief := chief0
	for i := 0; i < kept; i++ {
		leg := existingPlan.Legs[i]
		state = RelativeState{Position: leg.To.Position, Velocity: Vector3{}}
		chief = leg.Burn2.ChiefAtBurn
	}

	var remaining []Waypoint
	if modifiedIndex < len(newWaypoints) {
		remaining = newWaypoints[modifiedIndex:]
	}

	tail, err := PlanMission(state, remaining, chief, options)
	if err != nil {
		return MissionPlan{}, err
	}

	plan := MissionPlan{}
	plan.Legs = append(plan.Legs, existingPlan.Legs[:kept]...)
	plan.Legs = append(plan.Legs, tail.Legs...)
	plan.summarize()
	return plan, nil
}

// MissionTimeLocation pinpoints a mission time inside a specific leg.
type MissionTimeLocation struct {
	LegIndex  int
	TimeInLeg float64
}

// GetMissionStateAtTime locates mission time t within plan's legs, returning
// nil if t is outside [0, plan.TotalTime].
func GetMissionStateAtTime(plan MissionPlan, t float64) *MissionTimeLocation {
	if t < 0 || t > plan.TotalTime {
		return nil
	}
	elapsed := 0.0
	for i, leg := range plan.Legs {
		if t <= elapsed+leg.TOF || i == len(plan.Legs)-1 {
			return &MissionTimeLocation{LegIndex: i, TimeInLeg: t - elapsed}
		}
		elapsed += leg.TOF
	}
	return nil
}

// MissionSummary aggregates a MissionPlan into the figures a host UI
// typically renders per mission: total delta-v, total time, convergence,
// leg count, and the worst per-leg position error (useful for flagging a
// marginal leg even when the plan as a whole reports converged).
type MissionSummary struct {
	LegCount         int
	TotalDeltaV      float64
	TotalTime        float64
	Converged        bool
	WorstPositionErr float64
}

// GetMissionSummary reduces plan to a MissionSummary.
func GetMissionSummary(plan MissionPlan) MissionSummary {
	summary := MissionSummary{
		LegCount:    len(plan.Legs),
		TotalDeltaV: plan.TotalDeltaV,
		TotalTime:   plan.TotalTime,
		Converged:   plan.Converged,
	}
	for _, leg := range plan.Legs {
		if leg.PositionError > summary.WorstPositionErr {
			summary.WorstPositionErr = leg.PositionError
		}
	}
	return summary
}

// ExtractWaypointPositions returns the ordered arrival positions of every
// leg in plan, convenient for handing to a visualization layer without it
// needing to know about legs, burns, or convergence.
func ExtractWaypointPositions(plan MissionPlan) []Vector3 {
	positions := make([]Vector3, len(plan.Legs))
	for i, leg := range plan.Legs {
		positions[i] = leg.To.Position
	}
	return positions
}
