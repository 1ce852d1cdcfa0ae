package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akmonengine/torque"
	"github.com/akmonengine/torque/actor"
	"github.com/akmonengine/torque/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const carID = "tracksim-car"

func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	if err := Load(configDir); err != nil {
		logger.Fatal().Err(err).Msg("Cannot read configuration")
	}
	zerolog.SetGlobalLevel(logLevelFromName(GetLogLevel()))

	world, err := buildWorld(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot build the scenario")
	}

	run(world, logger)
}

func logLevelFromName(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// buildWorld assembles the slalom course and the car from the loaded
// configuration.
func buildWorld(logger zerolog.Logger) (*torque.World, error) {
	worldCfg := GetWorldConfig()

	config := torque.DefaultConfig()
	config.Gravity = mgl64.Vec3{0, worldCfg.GravityY, 0}
	config.Timestep = worldCfg.Timestep
	config.EnableSleeping = worldCfg.Sleeping
	config.SleepThreshold = worldCfg.SleepThreshold
	config.CellSize = worldCfg.CellSize

	world := torque.NewWorld(config, logger)

	// Portes du slalom, alternées gauche/droite le long de +Z
	scenario := GetScenarioConfig()
	for i := 0; i < scenario.Obstacles; i++ {
		offset := scenario.Offset
		if i%2 == 1 {
			offset = -offset
		}

		gate, err := actor.NewBody(
			fmt.Sprintf("gate-%d", i),
			actor.BodyTypeStatic,
			actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
			actor.DefaultMaterial(),
			0,
		)
		if err != nil {
			return nil, err
		}
		gate.Transform.Position = mgl64.Vec3{offset, 1, 25 + float64(i)*scenario.Spacing}
		gate.Owner = actor.StaticOwner()

		if err := world.AddBody(gate); err != nil {
			return nil, err
		}
	}

	vehicleCfg := GetVehicleConfig()
	_, err := world.AddVehicle(vehicle.Spec{
		ID:               carID,
		Position:         mgl64.Vec3{0, vehicle.DEFAULT_RIDE_HEIGHT, 0},
		MassKg:           vehicleCfg.Mass,
		EnginePowerWatts: vehicleCfg.EnginePower,
		MaxSpeedKPH:      vehicleCfg.MaxSpeedKPH,
		BrakeForce:       vehicleCfg.BrakeForce,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("obstacles", scenario.Obstacles).
		Float64("mass", vehicleCfg.Mass).
		Float64("maxSpeedKph", vehicleCfg.MaxSpeedKPH).
		Msg("Scenario ready")

	return world, nil
}

// run drives the car for the configured duration in fixed simulated time,
// logging telemetry at the configured cadence.
func run(world *torque.World, logger zerolog.Logger) {
	driveCfg := GetDriveConfig()
	runCfg := GetRunConfig()
	timestep := world.Config().Timestep

	collisions := 0
	world.Events.Subscribe(torque.COLLISION_ENTER, func(event torque.Event) {
		e := event.(torque.CollisionEnterEvent)
		collisions++
		logger.Warn().
			Str("bodyA", e.BodyA).
			Str("bodyB", e.BodyB).
			Float64("penetration", e.Contact.Penetration).
			Msg("Collision")
	})

	steps := int(runCfg.Duration.Seconds()/timestep + 0.5)
	telemetryEvery := int(runCfg.Telemetry.Seconds()/timestep + 0.5)
	if telemetryEvery < 1 {
		telemetryEvery = 1
	}
	brakeAtStep := int(driveCfg.BrakeAfter.Seconds()/timestep + 0.5)

	maxSpeed := 0.0
	for step := 0; step < steps; step++ {
		controls := vehicle.Controls{
			Throttle: driveCfg.Throttle,
			Steering: driveCfg.Steering,
		}
		if step >= brakeAtStep {
			controls = vehicle.Controls{Brake: 1}
		}

		world.SetControls(carID, controls)
		world.Step(timestep)

		v, _ := world.GetVelocity(carID)
		if speed := v.Len(); speed > maxSpeed {
			maxSpeed = speed
		}

		if step%telemetryEvery == 0 {
			pos, _ := world.GetPosition(carID)
			logger.Info().
				Float64("t", float64(step+1)*timestep).
				Float64("x", pos.X()).
				Float64("z", pos.Z()).
				Float64("kph", v.Len()*3.6).
				Msg("Telemetry")
		}
	}

	pos, _ := world.GetPosition(carID)
	logger.Info().
		Float64("traveled", pos.Z()).
		Float64("maxKph", maxSpeed*3.6).
		Int("collisions", collisions).
		Msg("Run complete")
}
