package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	kitlog "github.com/go-kit/log"

	roekit "github.com/sakobu/roekit"
)

// This code loads a TOML scenario, validates it, runs the planner, and
// prints a per-leg summary; optional flags drive a CSV trajectory export
// and an incremental-replan demo.

const defaultScenario = "~~unset~~"

var (
	scenarioFlag   string
	csvOut         string
	replanFrom     int
	replanWaypoint string
	pointsPerLeg   int
	denseVerify    bool
)

func init() {
	flag.StringVar(&scenarioFlag, "scenario", defaultScenario, "planning scenario TOML file")
	flag.StringVar(&csvOut, "csv", "", "optional trajectory CSV export path")
	flag.IntVar(&replanFrom, "replan-from", -1, "leg index to replan from (exercises ReplanFromWaypoint)")
	flag.StringVar(&replanWaypoint, "waypoint", "", "replacement waypoint as x,y,z for --replan-from")
	flag.IntVar(&pointsPerLeg, "points-per-leg", 20, "trajectory samples per leg")
	flag.BoolVar(&denseVerify, "dense-verify", false, "cross-check the first leg's coast arc with an RK4 Clohessy-Wiltshire integration")
}

func main() {
	flag.Parse()
	if scenarioFlag == defaultScenario {
		log.Fatal("no scenario provided; pass -scenario <name>")
	}

	logger := kitlog.NewLogfmtLogger(os.Stdout)
	logger = kitlog.With(logger, "subsys", "planner")

	name := strings.TrimSuffix(scenarioFlag, ".toml")
	sc, err := loadScenario(name)
	if err != nil {
		log.Fatalf("loading scenario: %s", err)
	}

	if issues := roekit.ValidateTargetingConfig(sc.chief, sc.options); len(issues) > 0 {
		for _, issue := range issues {
			logger.Log("level", "error", "code", issue.Code, "field", issue.Field, "msg", issue.Message, "suggestion", issue.Suggestion)
		}
		log.Fatalf("scenario %s failed validation (%d issue(s))", name, len(issues))
	}

	if !sc.epoch.IsZero() {
		logger.Log("level", "info", "epoch", sc.epoch.Format("2006-01-02 15:04:05"), "epochJD", sc.epochJD)
	}

	initialRIC := roekit.RelativeState{Position: sc.initialPosition, Velocity: sc.initialVelocity}

	plan, err := roekit.PlanMission(initialRIC, sc.waypoints, sc.chief, sc.options)
	if err != nil {
		log.Fatalf("planning mission: %s", err)
	}

	summary := roekit.GetMissionSummary(plan)
	logger.Log("level", "info", "legs", summary.LegCount, "totalDeltaV", summary.TotalDeltaV,
		"totalTime", summary.TotalTime, "converged", summary.Converged, "worstPositionError", summary.WorstPositionErr)

	for i, leg := range plan.Legs {
		logger.Log("level", "info", "leg", i, "tof", leg.TOF, "deltaV", leg.TotalDeltaV,
			"iterations", leg.Iterations, "converged", leg.Converged, "positionError", leg.PositionError)
	}

	if replanFrom >= 0 {
		runReplanDemo(logger, plan, sc)
	}

	if csvOut != "" {
		if err := exportTrajectoryCSV(plan, sc, csvOut); err != nil {
			log.Fatalf("exporting trajectory: %s", err)
		}
		logger.Log("level", "info", "msg", "wrote trajectory CSV", "path", csvOut)
	}

	if denseVerify {
		runDenseVerify(logger, plan, sc)
	}
}

// runReplanDemo exercises ReplanFromWaypoint: it replaces the position of
// waypoint replanFrom with replanWaypoint (x,y,z) and re-plans the tail of
// the mission from that point.
func runReplanDemo(logger kitlog.Logger, plan roekit.MissionPlan, sc *scenario) {
	if replanWaypoint == "" {
		logger.Log("level", "error", "msg", "-replan-from requires -waypoint x,y,z")
		return
	}
	parts := strings.Split(replanWaypoint, ",")
	if len(parts) != 3 {
		logger.Log("level", "error", "msg", "-waypoint must be x,y,z")
		return
	}
	coords := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			logger.Log("level", "error", "msg", "could not parse waypoint component", "value", p)
			return
		}
		coords[i] = v
	}

	newWaypoints := append([]roekit.Waypoint{}, sc.waypoints...)
	if replanFrom >= len(newWaypoints) {
		logger.Log("level", "error", "msg", "replan-from index out of range")
		return
	}
	newWaypoints[replanFrom].Position = roekit.Vector3{X: coords[0], Y: coords[1], Z: coords[2]}

	initialRIC := roekit.RelativeState{Position: sc.initialPosition, Velocity: sc.initialVelocity}
	replanned, err := roekit.ReplanFromWaypoint(plan, replanFrom, newWaypoints, sc.chief, initialRIC, sc.options)
	if err != nil {
		logger.Log("level", "error", "msg", "replan failed", "err", err)
		return
	}
	logger.Log("level", "info", "msg", "replanned mission", "totalDeltaV", replanned.TotalDeltaV,
		"totalTime", replanned.TotalTime, "converged", replanned.Converged)
}

func exportTrajectoryCSV(plan roekit.MissionPlan, sc *scenario, path string) error {
	traj, err := roekit.GenerateMissionTrajectory(plan, sc.chief, sc.initialPosition, sc.initialVelocity, sc.options.PropagationOptions, pointsPerLeg)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("time,r,i,c,vr,vi,vc\n"); err != nil {
		return err
	}
	for _, p := range traj {
		line := fmt.Sprintf("%f,%f,%f,%f,%f,%f,%f\n",
			p.Time, p.Position.X, p.Position.Y, p.Position.Z, p.Velocity.X, p.Velocity.Y, p.Velocity.Z)
		if _, err := f.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}
