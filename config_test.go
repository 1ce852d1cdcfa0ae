package torque

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Gravity != (mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("Expected standard gravity, got %v", config.Gravity)
	}
	if config.Timestep != 1.0/60 {
		t.Errorf("Expected 60 Hz timestep, got %g", config.Timestep)
	}
	if config.Iterations != 1 {
		t.Errorf("Expected 1 iteration, got %d", config.Iterations)
	}
	if config.Broadphase != BroadphaseGrid {
		t.Errorf("Expected grid broadphase, got %q", config.Broadphase)
	}
	if config.Solver != SolverSequentialImpulse {
		t.Errorf("Expected sequential impulse solver, got %q", config.Solver)
	}
	if !config.EnableSleeping {
		t.Error("Expected sleeping enabled by default")
	}
	if config.SleepThreshold != 0.05 {
		t.Errorf("Expected sleep threshold 0.05, got %g", config.SleepThreshold)
	}
	if config.MaxContacts != 256 {
		t.Errorf("Expected 256 max contacts, got %d", config.MaxContacts)
	}
	if config.MaxCatchUpSteps != 8 {
		t.Errorf("Expected 8 catch-up steps, got %d", config.MaxCatchUpSteps)
	}
	if config.CellSize != 8.0 {
		t.Errorf("Expected cell size 8, got %g", config.CellSize)
	}
	if config.GridCells != 1024 {
		t.Errorf("Expected 1024 grid cells, got %d", config.GridCells)
	}
}

// =============================================================================
// Normalization
// =============================================================================

func TestNormalize_ZeroValueRepaired(t *testing.T) {
	config := Config{}.normalize(zerolog.Nop())
	defaults := DefaultConfig()

	if config.Timestep != defaults.Timestep {
		t.Errorf("Expected default timestep, got %g", config.Timestep)
	}
	if config.Iterations != 1 {
		t.Errorf("Expected 1 iteration, got %d", config.Iterations)
	}
	if config.Broadphase != BroadphaseGrid {
		t.Errorf("Expected grid broadphase, got %q", config.Broadphase)
	}
	if config.Solver != SolverSequentialImpulse {
		t.Errorf("Expected sequential impulse solver, got %q", config.Solver)
	}
	if config.MaxContacts != defaults.MaxContacts {
		t.Errorf("Expected default max contacts, got %d", config.MaxContacts)
	}
	if config.MaxCatchUpSteps != defaults.MaxCatchUpSteps {
		t.Errorf("Expected default catch-up cap, got %d", config.MaxCatchUpSteps)
	}
	if config.CellSize != defaults.CellSize {
		t.Errorf("Expected default cell size, got %g", config.CellSize)
	}
	if config.GridCells != defaults.GridCells {
		t.Errorf("Expected default grid cells, got %d", config.GridCells)
	}

	// Gravité nulle et sommeil désactivé sont des réglages, pas des erreurs
	if config.Gravity != (mgl64.Vec3{}) {
		t.Errorf("Zero gravity must pass through, got %v", config.Gravity)
	}
	if config.EnableSleeping {
		t.Error("Disabled sleeping must pass through")
	}
}

func TestNormalize_BrokenValuesRepaired(t *testing.T) {
	config := Config{
		Timestep:        -0.5,
		SleepThreshold:  -1,
		EnableSleeping:  true,
		MaxContacts:     -10,
		MaxCatchUpSteps: -3,
		CellSize:        -8,
		GridCells:       -64,
	}.normalize(zerolog.Nop())
	defaults := DefaultConfig()

	if config.Timestep != defaults.Timestep {
		t.Errorf("Expected repaired timestep, got %g", config.Timestep)
	}
	if config.SleepThreshold != defaults.SleepThreshold {
		t.Errorf("Expected repaired sleep threshold, got %g", config.SleepThreshold)
	}
	if config.MaxContacts != defaults.MaxContacts {
		t.Errorf("Expected repaired max contacts, got %d", config.MaxContacts)
	}
	if config.MaxCatchUpSteps != defaults.MaxCatchUpSteps {
		t.Errorf("Expected repaired catch-up cap, got %d", config.MaxCatchUpSteps)
	}
	if config.CellSize != defaults.CellSize {
		t.Errorf("Expected repaired cell size, got %g", config.CellSize)
	}
	if config.GridCells != defaults.GridCells {
		t.Errorf("Expected repaired grid cells, got %d", config.GridCells)
	}
}

func TestNormalize_GravityPassThrough(t *testing.T) {
	lunar := mgl64.Vec3{0, -1.62, 0}
	config := Config{Gravity: lunar}.normalize(zerolog.Nop())

	if config.Gravity != lunar {
		t.Errorf("Expected gravity untouched, got %v", config.Gravity)
	}
}

func TestNormalize_SleepThresholdOnlyRepairedWhenSleeping(t *testing.T) {
	// Sommeil coupé : le seuil n'est pas consulté, donc pas réparé
	config := Config{EnableSleeping: false, SleepThreshold: 0}.normalize(zerolog.Nop())
	if config.SleepThreshold != 0 {
		t.Errorf("Expected threshold left alone with sleeping off, got %g", config.SleepThreshold)
	}

	config = Config{EnableSleeping: true, SleepThreshold: 0}.normalize(zerolog.Nop())
	if config.SleepThreshold != DefaultConfig().SleepThreshold {
		t.Errorf("Expected threshold repaired with sleeping on, got %g", config.SleepThreshold)
	}
}

func TestNormalize_IterationsFolded(t *testing.T) {
	config := Config{Iterations: 5}.normalize(zerolog.Nop())

	if config.Iterations != 1 {
		t.Errorf("Expected iterations folded to 1, got %d", config.Iterations)
	}
}

func TestNormalize_UnknownKindsFolded(t *testing.T) {
	config := Config{
		Broadphase: "octree",
		Solver:     "xpbd",
	}.normalize(zerolog.Nop())

	if config.Broadphase != BroadphaseGrid {
		t.Errorf("Expected unknown broadphase folded to grid, got %q", config.Broadphase)
	}
	if config.Solver != SolverSequentialImpulse {
		t.Errorf("Expected unknown solver folded to sequential impulse, got %q", config.Solver)
	}
}

func TestNormalize_ValidConfigUntouched(t *testing.T) {
	config := DefaultConfig()
	config.Gravity = mgl64.Vec3{0, -3.7, 0}
	config.Timestep = 0.01
	config.SleepThreshold = 0.1
	config.CellSize = 4
	config.MaxContacts = 64

	normalized := config.normalize(zerolog.Nop())

	if normalized != config {
		t.Errorf("Expected valid config untouched:\ngot  %+v\nwant %+v", normalized, config)
	}
}
