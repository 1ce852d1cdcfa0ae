package torque

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// BroadphaseKind selects the collision pair-finding strategy.
type BroadphaseKind string

// SolverKind selects the contact resolution strategy.
type SolverKind string

const (
	BroadphaseGrid BroadphaseKind = "grid"

	SolverSequentialImpulse SolverKind = "sequential-impulse"
)

// Config is supplied once at NewWorld. Gravity and EnableSleeping pass
// through as given (a zero gravity is a legal simulation); every other field
// is repaired to its default when left at zero or set to a broken value.
// Iterations, Broadphase and Solver are declared surface: the reference
// behavior is a single-pass sequential-impulse solver over a grid broadphase,
// other declared modes fold back to it.
type Config struct {
	Gravity  mgl64.Vec3
	Timestep float64

	Iterations int
	Broadphase BroadphaseKind
	Solver     SolverKind

	EnableSleeping bool
	SleepThreshold float64

	MaxContacts     int
	MaxCatchUpSteps int

	// Broadphase grid sizing
	CellSize  float64
	GridCells int
}

// DefaultConfig is the reference setup: standard gravity, 60 Hz fixed
// timestep, sleeping enabled.
func DefaultConfig() Config {
	return Config{
		Gravity:         mgl64.Vec3{0, -9.81, 0},
		Timestep:        1.0 / 60,
		Iterations:      1,
		Broadphase:      BroadphaseGrid,
		Solver:          SolverSequentialImpulse,
		EnableSleeping:  true,
		SleepThreshold:  0.05,
		MaxContacts:     256,
		MaxCatchUpSteps: 8,
		CellSize:        8.0,
		GridCells:       1024,
	}
}

// normalize folds broken values back to the defaults. Degenerate
// configuration never errors, it degrades to the reference behavior with a
// debug trace per adjustment.
func (c Config) normalize(logger zerolog.Logger) Config {
	defaults := DefaultConfig()

	if c.Timestep <= 0 {
		logger.Debug().Float64("timestep", c.Timestep).Msg("Invalid timestep, using default")
		c.Timestep = defaults.Timestep
	}
	if c.Iterations < 1 {
		c.Iterations = 1
	} else if c.Iterations > 1 {
		logger.Debug().Int("iterations", c.Iterations).Msg("Solver runs a single pass, iterations folded to 1")
		c.Iterations = 1
	}
	if c.Broadphase == "" {
		c.Broadphase = defaults.Broadphase
	} else if c.Broadphase != BroadphaseGrid {
		logger.Debug().Str("broadphase", string(c.Broadphase)).Msg("Unknown broadphase, using grid")
		c.Broadphase = BroadphaseGrid
	}
	if c.Solver == "" {
		c.Solver = defaults.Solver
	} else if c.Solver != SolverSequentialImpulse {
		logger.Debug().Str("solver", string(c.Solver)).Msg("Unknown solver, using sequential impulse")
		c.Solver = SolverSequentialImpulse
	}
	if c.EnableSleeping && c.SleepThreshold <= 0 {
		logger.Debug().Float64("sleepThreshold", c.SleepThreshold).Msg("Invalid sleep threshold, using default")
		c.SleepThreshold = defaults.SleepThreshold
	}
	if c.MaxContacts <= 0 {
		c.MaxContacts = defaults.MaxContacts
	}
	if c.MaxCatchUpSteps <= 0 {
		c.MaxCatchUpSteps = defaults.MaxCatchUpSteps
	}
	if c.CellSize <= 0 {
		c.CellSize = defaults.CellSize
	}
	if c.GridCells <= 0 {
		c.GridCells = defaults.GridCells
	}

	return c
}
