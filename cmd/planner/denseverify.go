package main

import (
	"math"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/log"

	roekit "github.com/sakobu/roekit"
)

// runDenseVerify re-propagates the first leg's coast arc (from just after
// the departure burn to arrival) with a numerical RK4 integration of the
// linear Clohessy-Wiltshire (Hill's) equations in the Cartesian RIC frame
// (no J2 and no nonlinear two-body terms), and reports how far that
// independent integration drifts from the closed-form STM's own sample at
// the same arrival time. This is the one place in the repo that performs
// numerical integration; the kernel itself is closed-form only, and this
// check exists purely as an operator sanity tool, never as an input to
// planning.
func runDenseVerify(logger kitlog.Logger, plan roekit.MissionPlan, sc *scenario) {
	if len(plan.Legs) == 0 {
		logger.Log("level", "info", "msg", "dense-verify skipped: no legs to check")
		return
	}
	leg := plan.Legs[0]

	postBurnVel := sc.initialVelocity.Add(leg.Burn1.DeltaV)
	state := &relativeMotionState{
		r:      [3]float64{sc.initialPosition.X, sc.initialPosition.Y, sc.initialPosition.Z},
		v:      [3]float64{postBurnVel.X, postBurnVel.Y, postBurnVel.Z},
		n:      meanMotionOrZero(sc.chief),
		stopAt: leg.TOF,
	}

	integrator := ode.NewRK4(0, leg.TOF/200, state)
	integrator.Solve()

	stmTraj, err := roekit.GenerateLegTrajectory(leg, sc.chief, sc.initialPosition, sc.initialVelocity, sc.options.PropagationOptions, 2)
	if err != nil {
		logger.Log("level", "error", "msg", "dense-verify: could not regenerate STM trajectory", "err", err)
		return
	}
	arrival := stmTraj[len(stmTraj)-1]

	drift := math.Sqrt(
		math.Pow(state.r[0]-arrival.Position.X, 2) +
			math.Pow(state.r[1]-arrival.Position.Y, 2) +
			math.Pow(state.r[2]-arrival.Position.Z, 2))

	logger.Log("level", "info", "msg", "dense-verify complete", "rk4VsSTMDriftMeters", drift)
}

func meanMotionOrZero(chief roekit.ClassicalOrbitalElements) float64 {
	n, err := chief.MeanMotion()
	if err != nil {
		return 0
	}
	return n
}

// relativeMotionState implements ode.Integrable for the linearized
// Hill-Clohessy-Wiltshire relative motion model (circular chief, no J2),
// driven by the chief's mean motion n. It exists only to give --dense-verify an
// independent numerical integrator to cross-check against; the kernel's own
// propagator never uses it.
type relativeMotionState struct {
	r      [3]float64
	v      [3]float64
	n      float64
	stopAt float64
}

func (s *relativeMotionState) GetState() []float64 {
	return []float64{s.r[0], s.r[1], s.r[2], s.v[0], s.v[1], s.v[2]}
}

func (s *relativeMotionState) SetState(t float64, state []float64) {
	s.r = [3]float64{state[0], state[1], state[2]}
	s.v = [3]float64{state[3], state[4], state[5]}
}

// Func evaluates the CW relative-motion derivative: d/dt[r,v] = [v, a(r,v)],
// with a given by the standard Hill's-equations acceleration driven by mean
// motion n.
func (s *relativeMotionState) Func(t float64, state []float64) []float64 {
	n := s.n
	x := state[0]
	vx, vy := state[3], state[4]

	ax := 3*n*n*x + 2*n*vy
	ay := -2 * n * vx
	az := -n * n * state[2]

	return []float64{state[3], state[4], state[5], ax, ay, az}
}

// Stop ends the integration once t reaches the leg's time of flight; the
// target duration is threaded through via the stopAt field set by the
// caller before Solve is invoked.
func (s *relativeMotionState) Stop(t float64) bool {
	return t >= s.stopAt
}
