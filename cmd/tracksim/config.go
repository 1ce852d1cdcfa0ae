package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// WorldConfig holds the simulation tuning exposed to the config file
type WorldConfig struct {
	GravityY       float64 `json:"gravityY" mapstructure:"gravityY"`
	Timestep       float64 `json:"timestep" mapstructure:"timestep"`
	Sleeping       bool    `json:"sleeping" mapstructure:"sleeping"`
	SleepThreshold float64 `json:"sleepThreshold" mapstructure:"sleepThreshold"`
	CellSize       float64 `json:"cellSize" mapstructure:"cellSize"`
}

// VehicleConfig holds the physical profile of the simulated car
type VehicleConfig struct {
	Mass        float64 `json:"mass" mapstructure:"mass"`
	EnginePower float64 `json:"enginePower" mapstructure:"enginePower"`
	MaxSpeedKPH float64 `json:"maxSpeedKph" mapstructure:"maxSpeedKph"`
	BrakeForce  float64 `json:"brakeForce" mapstructure:"brakeForce"`
}

// DriveConfig holds the constant driver inputs of the run
type DriveConfig struct {
	Throttle   float64       `json:"throttle" mapstructure:"throttle"`
	Steering   float64       `json:"steering" mapstructure:"steering"`
	BrakeAfter time.Duration `json:"brakeAfter" mapstructure:"brakeAfter"`
}

// RunConfig holds the duration and telemetry cadence of the run
type RunConfig struct {
	Duration  time.Duration `json:"duration" mapstructure:"duration"`
	Telemetry time.Duration `json:"telemetry" mapstructure:"telemetry"`
}

// ScenarioConfig describes the slalom course laid out in front of the car
type ScenarioConfig struct {
	Obstacles int     `json:"obstacles" mapstructure:"obstacles"`
	Spacing   float64 `json:"spacing" mapstructure:"spacing"`
	Offset    float64 `json:"offset" mapstructure:"offset"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// not an error: the simulation runs on defaults.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("run.duration", "12s")
	viper.SetDefault("run.telemetry", "500ms")

	viper.SetDefault("world.gravityY", -9.81)
	viper.SetDefault("world.timestep", 1.0/60.0)
	viper.SetDefault("world.sleeping", true)
	viper.SetDefault("world.sleepThreshold", 0.05)
	viper.SetDefault("world.cellSize", 8.0)

	viper.SetDefault("vehicle.mass", 1200.0)
	viper.SetDefault("vehicle.enginePower", 48000.0)
	viper.SetDefault("vehicle.maxSpeedKph", 180.0)
	viper.SetDefault("vehicle.brakeForce", 9000.0)

	viper.SetDefault("drive.throttle", 1.0)
	viper.SetDefault("drive.steering", 0.0)
	viper.SetDefault("drive.brakeAfter", "8s")

	viper.SetDefault("scenario.obstacles", 6)
	viper.SetDefault("scenario.spacing", 18.0)
	viper.SetDefault("scenario.offset", 4.0)

	viper.SetConfigName("tracksim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetLogLevel returns the configured log level name.
func GetLogLevel() string {
	return viper.GetString("logLevel")
}

// GetWorldConfig returns the world tuning section.
func GetWorldConfig() WorldConfig {
	return WorldConfig{
		GravityY:       viper.GetFloat64("world.gravityY"),
		Timestep:       viper.GetFloat64("world.timestep"),
		Sleeping:       viper.GetBool("world.sleeping"),
		SleepThreshold: viper.GetFloat64("world.sleepThreshold"),
		CellSize:       viper.GetFloat64("world.cellSize"),
	}
}

// GetVehicleConfig returns the vehicle profile section.
func GetVehicleConfig() VehicleConfig {
	return VehicleConfig{
		Mass:        viper.GetFloat64("vehicle.mass"),
		EnginePower: viper.GetFloat64("vehicle.enginePower"),
		MaxSpeedKPH: viper.GetFloat64("vehicle.maxSpeedKph"),
		BrakeForce:  viper.GetFloat64("vehicle.brakeForce"),
	}
}

// GetDriveConfig returns the driver input section.
func GetDriveConfig() DriveConfig {
	return DriveConfig{
		Throttle:   viper.GetFloat64("drive.throttle"),
		Steering:   viper.GetFloat64("drive.steering"),
		BrakeAfter: viper.GetDuration("drive.brakeAfter"),
	}
}

// GetRunConfig returns the run duration section.
func GetRunConfig() RunConfig {
	return RunConfig{
		Duration:  viper.GetDuration("run.duration"),
		Telemetry: viper.GetDuration("run.telemetry"),
	}
}

// GetScenarioConfig returns the course layout section.
func GetScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		Obstacles: viper.GetInt("scenario.obstacles"),
		Spacing:   viper.GetFloat64("scenario.spacing"),
		Offset:    viper.GetFloat64("scenario.offset"),
	}
}
