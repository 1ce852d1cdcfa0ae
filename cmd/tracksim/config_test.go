package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracksim.cfg.json"), []byte(content), 0644))

	return dir
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, 12*time.Second, viper.GetDuration("run.duration"))
	assert.Equal(t, 500*time.Millisecond, viper.GetDuration("run.telemetry"))
	assert.Equal(t, -9.81, viper.GetFloat64("world.gravityY"))
	assert.Equal(t, 1.0/60.0, viper.GetFloat64("world.timestep"))
	assert.Equal(t, true, viper.GetBool("world.sleeping"))
	assert.Equal(t, 0.05, viper.GetFloat64("world.sleepThreshold"))
	assert.Equal(t, 8.0, viper.GetFloat64("world.cellSize"))
	assert.Equal(t, 1200.0, viper.GetFloat64("vehicle.mass"))
	assert.Equal(t, 48000.0, viper.GetFloat64("vehicle.enginePower"))
	assert.Equal(t, 180.0, viper.GetFloat64("vehicle.maxSpeedKph"))
	assert.Equal(t, 9000.0, viper.GetFloat64("vehicle.brakeForce"))
	assert.Equal(t, 1.0, viper.GetFloat64("drive.throttle"))
	assert.Equal(t, 0.0, viper.GetFloat64("drive.steering"))
	assert.Equal(t, 8*time.Second, viper.GetDuration("drive.brakeAfter"))
	assert.Equal(t, 6, viper.GetInt("scenario.obstacles"))
	assert.Equal(t, 18.0, viper.GetFloat64("scenario.spacing"))
	assert.Equal(t, 4.0, viper.GetFloat64("scenario.offset"))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"world": { "gravityY": -3.7, "sleeping": false },
		"vehicle": { "mass": 900, "maxSpeedKph": 120 }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, -3.7, viper.GetFloat64("world.gravityY"))
	assert.Equal(t, false, viper.GetBool("world.sleeping"))
	assert.Equal(t, 900.0, viper.GetFloat64("vehicle.mass"))
	assert.Equal(t, 120.0, viper.GetFloat64("vehicle.maxSpeedKph"))

	// Les clés absentes gardent leurs défauts
	assert.Equal(t, 48000.0, viper.GetFloat64("vehicle.enginePower"))
	assert.Equal(t, 1.0/60.0, viper.GetFloat64("world.timestep"))
}

func TestLoad_MissingFileRunsOnDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, -9.81, viper.GetFloat64("world.gravityY"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{ not json at all`)

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetWorldConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"world": {
			"gravityY": -1.62,
			"timestep": 0.01,
			"sleeping": false,
			"sleepThreshold": 0.2,
			"cellSize": 16
		}
	}`)
	require.NoError(t, Load(dir))

	cfg := GetWorldConfig()
	assert.Equal(t, -1.62, cfg.GravityY)
	assert.Equal(t, 0.01, cfg.Timestep)
	assert.Equal(t, false, cfg.Sleeping)
	assert.Equal(t, 0.2, cfg.SleepThreshold)
	assert.Equal(t, 16.0, cfg.CellSize)
}

func TestGetVehicleConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"vehicle": {
			"mass": 1500,
			"enginePower": 60000,
			"maxSpeedKph": 200,
			"brakeForce": 12000
		}
	}`)
	require.NoError(t, Load(dir))

	cfg := GetVehicleConfig()
	assert.Equal(t, 1500.0, cfg.Mass)
	assert.Equal(t, 60000.0, cfg.EnginePower)
	assert.Equal(t, 200.0, cfg.MaxSpeedKPH)
	assert.Equal(t, 12000.0, cfg.BrakeForce)
}

func TestGetDriveConfig_Durations(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"drive": { "throttle": 0.8, "steering": -0.25, "brakeAfter": "3s" }
	}`)
	require.NoError(t, Load(dir))

	cfg := GetDriveConfig()
	assert.Equal(t, 0.8, cfg.Throttle)
	assert.Equal(t, -0.25, cfg.Steering)
	assert.Equal(t, 3*time.Second, cfg.BrakeAfter)
}

func TestGetRunConfig_Durations(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"run": { "duration": "1m", "telemetry": "2s" }
	}`)
	require.NoError(t, Load(dir))

	cfg := GetRunConfig()
	assert.Equal(t, time.Minute, cfg.Duration)
	assert.Equal(t, 2*time.Second, cfg.Telemetry)
}

func TestGetScenarioConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	cfg := GetScenarioConfig()
	assert.Equal(t, 6, cfg.Obstacles)
	assert.Equal(t, 18.0, cfg.Spacing)
	assert.Equal(t, 4.0, cfg.Offset)
}
