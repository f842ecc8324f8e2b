package roekit

import "fmt"

// Waypoint is a single relative-position target in a mission plan. Velocity
// defaults to the zero vector (rendezvous to rest). When TOFHint is set the
// leg is solved at exactly that time of flight and the time-of-flight
// optimizer is not run.
type Waypoint struct {
	Position Vector3
	Velocity Vector3 // desired arrival velocity in RIC, zero by default
	TOFHint  float64 // seconds; 0 means "let the optimizer choose the time of flight"
}

func (w Waypoint) String() string {
	return fmt.Sprintf("waypoint pos=%s vel=%s", w.Position, w.Velocity)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Maneuver is a single impulsive burn.
type Maneuver struct {
	DeltaV      Vector3 // RIC frame
	Magnitude   float64 // |DeltaV|, redundant but kept for convenient logging/export
	ChiefAtBurn ClassicalOrbitalElements
}

// NewManeuver builds a Maneuver from a RIC delta-v and the chief state at
// the instant of the burn, filling in Magnitude.
func NewManeuver(dv Vector3, chief ClassicalOrbitalElements) Maneuver {
	return Maneuver{DeltaV: dv, Magnitude: dv.Norm(), ChiefAtBurn: chief}
}

// ManeuverLeg is the result of targeting a single waypoint-to-waypoint
// transfer: a departure burn, an arrival burn, and the shooter's outcome.
type ManeuverLeg struct {
	From           Waypoint
	To             Waypoint
	TargetVelocity Vector3
	TOF            float64
	Burn1          Maneuver
	Burn2          Maneuver
	TotalDeltaV    float64 // |Burn1.DeltaV| + |Burn2.DeltaV|
	Converged      bool
	Iterations     int
	PositionError  float64 // meters, final miss distance at arrival
}

// MissionPlan chains ManeuverLegs from waypoint to waypoint. Converged is the
// conjunction of every leg's Converged flag; TotalDeltaV and TotalTime are
// sums across legs.
type MissionPlan struct {
	Legs        []ManeuverLeg
	TotalDeltaV float64
	TotalTime   float64
	Converged   bool
}

// summarize recomputes the aggregate fields from Legs. Called once after
// every leg has been solved (by PlanMission) and again after a partial
// replan (by ReplanFromWaypoint) so the plan is never left with stale totals.
func (p *MissionPlan) summarize() {
	p.TotalDeltaV = 0
	p.TotalTime = 0
	p.Converged = true
	for _, leg := range p.Legs {
		p.TotalDeltaV += leg.TotalDeltaV
		p.TotalTime += leg.TOF
		p.Converged = p.Converged && leg.Converged
	}
}

// TrajectoryPoint is one sample of a synthesized trajectory, with Time
// measured cumulatively from the start of the mission (or leg, for
// single-leg sampling).
type TrajectoryPoint struct {
	Time     float64
	Position Vector3
	Velocity Vector3
}

// DragModel selects which augmented STM a DragConfig feeds.
type DragModel int

const (
	// DragModelEccentric selects the 7-state drag STM (DaDotDrag only),
	// valid only for e >= dragArbitraryMinEccentricity.
	DragModelEccentric DragModel = iota
	// DragModelArbitrary selects the 9-state drag STM (DaDotDrag,
	// DexDotDrag, DeyDotDrag), the near-circular-safe model with no
	// eccentricity floor.
	DragModelArbitrary
)

// dragArbitraryMinEccentricity is the eccentricity floor below which the
// eccentric-drag model's closed form is numerically unreliable and the
// arbitrary-eccentricity model should be used instead (§8 scenario S5).
const dragArbitraryMinEccentricity = 0.05

// DragConfig supplies the externally-estimated secular ROE drag rates that
// the drag-augmented STMs advance linearly; the kernel does not model
// atmospheric density itself (Non-goal).
type DragConfig struct {
	Model      DragModel
	DaDotDrag  float64 // required by both models
	DexDotDrag float64 // required only by DragModelArbitrary
	DeyDotDrag float64 // required only by DragModelArbitrary
}

// PropagationOptions controls which perturbation terms the propagator
// applies. IncludeDrag without IncludeJ2 is rejected: the drag STMs are
// J2-augmented and have no drag-only closed form.
//
// ChiefAbsoluteDaDot (m/s) decays the chief's own semi-major axis in
// PropagateROEWithChief. It is distinct from DragConfig.DaDotDrag, which is
// the differential rate of the relative element δa; the chief decay is an
// implementation convenience outside the STM derivation and stays disabled
// (zero) unless a caller opts in.
type PropagationOptions struct {
	IncludeJ2          bool
	IncludeDrag        bool
	Drag               *DragConfig // required iff IncludeDrag
	ChiefAbsoluteDaDot float64
}

// DefaultPropagationOptions returns {IncludeJ2: true, IncludeDrag: false},
// the spec's stated defaults.
func DefaultPropagationOptions() PropagationOptions {
	return PropagationOptions{IncludeJ2: true}
}

// TOFSearchRange bounds the golden-section time-of-flight search, expressed
// in multiples of the chief's orbital period.
type TOFSearchRange struct {
	MinOrbits float64
	MaxOrbits float64
}

// TargetingOptions extends PropagationOptions with the shooter's and
// optimizer's tunables.
type TargetingOptions struct {
	PropagationOptions
	MaxIterations     int
	PositionTolerance float64 // meters
	VelocityTolerance float64 // m/s
	TargetVelocity    Vector3
	TOFSearchRange    TOFSearchRange
}

// DefaultTargetingOptions returns the spec's stated defaults: 50 max
// iterations, 1 m position tolerance, 1e-3 m/s velocity tolerance, zero
// target velocity, and a 0.5-3.0 orbit TOF search bracket.
func DefaultTargetingOptions() TargetingOptions {
	return TargetingOptions{
		PropagationOptions: DefaultPropagationOptions(),
		MaxIterations:      50,
		PositionTolerance:  1.0,
		VelocityTolerance:  1e-3,
		TOFSearchRange:     TOFSearchRange{MinOrbits: 0.5, MaxOrbits: 3.0},
	}
}

// Validate checks the one cross-field invariant the spec places on
// PropagationOptions: drag requires J2, and a drag-augmented propagation
// must carry a DragConfig.
func (o PropagationOptions) Validate() error {
	if o.IncludeDrag && !o.IncludeJ2 {
		return &KernelError{Kind: DragMisconfigured, Field: "IncludeJ2", Msg: "drag-augmented propagation requires IncludeJ2=true"}
	}
	if o.IncludeDrag && o.Drag == nil {
		return &KernelError{Kind: DragMisconfigured, Field: "Drag", Msg: "IncludeDrag=true requires a non-nil DragConfig"}
	}
	return nil
}
