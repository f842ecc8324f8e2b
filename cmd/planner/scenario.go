package main

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/spf13/viper"

	roekit "github.com/sakobu/roekit"
)

// scenario is the TOML-loaded description of one planning run: a chief
// orbit, an initial relative state, an ordered waypoint list, and targeting
// options, mirroring the shape of the teacher's mission scenario files but
// scoped to a single rendezvous-planning session rather than a full
// multi-day propagated mission.
type scenario struct {
	epoch   time.Time
	epochJD float64

	chief roekit.ClassicalOrbitalElements

	initialPosition roekit.Vector3
	initialVelocity roekit.Vector3

	waypoints []roekit.Waypoint

	options roekit.TargetingOptions
}

// loadScenario reads name.toml (the ".toml" suffix is optional on the CLI
// flag) from the current directory via viper, the same convention the
// teacher's cmd/mission uses.
func loadScenario(name string) (*scenario, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(name)
	viper.SetConfigType("toml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s.toml: %w", name, err)
	}

	sc := &scenario{
		chief: roekit.ClassicalOrbitalElements{
			SemiMajorAxis: viper.GetFloat64("chief.sma"),
			Eccentricity:  viper.GetFloat64("chief.ecc"),
			Inclination:   roekit.Deg2rad(viper.GetFloat64("chief.inc")),
			RAAN:          roekit.Deg2rad(viper.GetFloat64("chief.raan")),
			ArgPerigee:    roekit.Deg2rad(viper.GetFloat64("chief.argPeri")),
			MeanAnomaly:   roekit.Deg2rad(viper.GetFloat64("chief.meanAnomaly")),
			Mu:            muOrDefault(viper.GetFloat64("chief.mu")),
		},
		initialPosition: vector3From(viper.GetViper(), "initial.position"),
		initialVelocity: vector3From(viper.GetViper(), "initial.velocity"),
		options:         optionsFrom(viper.GetViper()),
	}

	if epochStr := viper.GetString("mission.epoch"); epochStr != "" {
		t, err := time.Parse("2006-01-02 15:04:05", epochStr)
		if err != nil {
			return nil, fmt.Errorf("mission.epoch %q: %w", epochStr, err)
		}
		sc.epoch = t
		sc.epochJD = julian.TimeToJD(t)
	}

	waypoints := viper.Get("waypoints")
	items, ok := waypoints.([]interface{})
	if !ok {
		return nil, fmt.Errorf("waypoints: expected an array of tables")
	}
	for idx, raw := range items {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("waypoints[%d]: malformed entry", idx)
		}
		sc.waypoints = append(sc.waypoints, roekit.Waypoint{
			Position: roekit.Vector3{X: toFloat(entry["x"]), Y: toFloat(entry["y"]), Z: toFloat(entry["z"])},
			Velocity: roekit.Vector3{X: toFloat(entry["vx"]), Y: toFloat(entry["vy"]), Z: toFloat(entry["vz"])},
			TOFHint:  toFloat(entry["tofHint"]),
		})
	}

	return sc, nil
}

func muOrDefault(mu float64) float64 {
	if mu == 0 {
		return roekit.MuEarth
	}
	return mu
}

func vector3From(v *viper.Viper, key string) roekit.Vector3 {
	return roekit.Vector3{
		X: v.GetFloat64(key + ".x"),
		Y: v.GetFloat64(key + ".y"),
		Z: v.GetFloat64(key + ".z"),
	}
}

func optionsFrom(v *viper.Viper) roekit.TargetingOptions {
	opts := roekit.DefaultTargetingOptions()
	opts.IncludeJ2 = v.GetBool("options.includeJ2")
	if !v.IsSet("options.includeJ2") {
		opts.IncludeJ2 = true
	}
	opts.IncludeDrag = v.GetBool("options.includeDrag")
	if opts.IncludeDrag {
		opts.Drag = &roekit.DragConfig{
			DaDotDrag:  v.GetFloat64("options.drag.daDotDrag"),
			DexDotDrag: v.GetFloat64("options.drag.dexDotDrag"),
			DeyDotDrag: v.GetFloat64("options.drag.deyDotDrag"),
		}
		if v.GetString("options.drag.model") == "arbitrary" {
			opts.Drag.Model = roekit.DragModelArbitrary
		}
	}
	opts.ChiefAbsoluteDaDot = v.GetFloat64("options.chiefAbsoluteDaDot")
	if n := v.GetInt("options.maxIterations"); n > 0 {
		opts.MaxIterations = n
	}
	if tol := v.GetFloat64("options.positionTolerance"); tol > 0 {
		opts.PositionTolerance = tol
	}
	if lo := v.GetFloat64("options.tofMinOrbits"); lo > 0 {
		opts.TOFSearchRange.MinOrbits = lo
	}
	if hi := v.GetFloat64("options.tofMaxOrbits"); hi > 0 {
		opts.TOFSearchRange.MaxOrbits = hi
	}
	return opts
}

func toFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
