package torque

import (
	"fmt"

	"github.com/akmonengine/torque/actor"
	"github.com/akmonengine/torque/constraint"
	"github.com/akmonengine/torque/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// World owns every simulated body and advances them with a fixed-timestep
// accumulator. All mutation happens through AddBody/RemoveBody,
// AddVehicle/RemoveVehicle and Step; callers must re-fetch snapshots after
// each Step since state is mutated in place.
type World struct {
	// Bodies in insertion order. The order is load-bearing: broadphase
	// pairing, solving and integration all walk it, which keeps a given
	// scene deterministic from one run to the next.
	bodies    []*actor.Body
	bodyIndex map[string]*actor.Body

	vehicles     map[string]*vehicle.Link
	vehicleOrder []string

	grid   *SpatialGrid
	config Config
	logger zerolog.Logger

	accumulator float64
	nextBodyID  int

	Events Events
}

// NewWorld builds a world from a normalized configuration. Pass
// zerolog.Nop() to run silent.
func NewWorld(config Config, logger zerolog.Logger) *World {
	config = config.normalize(logger)

	return &World{
		bodyIndex: make(map[string]*actor.Body),
		vehicles:  make(map[string]*vehicle.Link),
		grid:      NewSpatialGrid(config.CellSize, config.GridCells),
		config:    config,
		logger:    logger,
		Events:    NewEvents(),
	}
}

// Config returns the normalized configuration the world runs with.
func (w *World) Config() Config {
	return w.config
}

// AddBody registers a body in the world. Ids must be unique.
func (w *World) AddBody(body *actor.Body) error {
	if body == nil {
		return fmt.Errorf("%w: nil body", actor.ErrInvalidBodyConfig)
	}
	if _, exists := w.bodyIndex[body.ID]; exists {
		return fmt.Errorf("%w: duplicate body id %q", actor.ErrInvalidBodyConfig, body.ID)
	}

	w.bodies = append(w.bodies, body)
	w.bodyIndex[body.ID] = body
	w.Events.observeBody(body)

	return nil
}

// RemoveBody removes a body from the world. Unknown ids are a no-op.
func (w *World) RemoveBody(id string) {
	body, exists := w.bodyIndex[id]
	if !exists {
		return
	}

	delete(w.bodyIndex, id)
	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}

	w.Events.forgetBody(id)
}

// Body returns the registered body for an id.
func (w *World) Body(id string) (*actor.Body, bool) {
	body, exists := w.bodyIndex[id]
	return body, exists
}

// AddVehicle registers a chassis plus its four wheel bodies and returns the
// vehicle id. Zero-valued spec fields are filled with defaults; an empty
// spec id gets a generated one. Wheel ids are opaque, the wheel→vehicle
// relation lives in the body Owner.
func (w *World) AddVehicle(spec vehicle.Spec) (string, error) {
	spec = spec.WithDefaults()
	if spec.ID == "" {
		spec.ID = w.generateID()
	}

	if _, exists := w.vehicles[spec.ID]; exists {
		return "", fmt.Errorf("%w: duplicate vehicle id %q", actor.ErrInvalidBodyConfig, spec.ID)
	}

	chassis, err := vehicle.NewChassis(spec)
	if err != nil {
		return "", err
	}
	if err := w.AddBody(chassis); err != nil {
		return "", err
	}
	added := []string{chassis.ID}

	rollback := func() {
		for _, id := range added {
			w.RemoveBody(id)
		}
	}

	link := &vehicle.Link{VehicleID: spec.ID, BodyID: chassis.ID, Spec: spec}
	for i := 0; i < vehicle.WheelCount; i++ {
		wheelID := w.generateID()

		wheel, err := vehicle.NewWheel(spec, i, wheelID)
		if err != nil {
			rollback()
			return "", err
		}
		if err := w.AddBody(wheel); err != nil {
			rollback()
			return "", err
		}

		added = append(added, wheelID)
		link.WheelIDs[i] = wheelID
	}

	w.vehicles[spec.ID] = link
	w.vehicleOrder = append(w.vehicleOrder, spec.ID)

	w.logger.Debug().Str("vehicle", spec.ID).Float64("mass", spec.MassKg).Msg("Vehicle registered")

	return spec.ID, nil
}

// RemoveVehicle removes a vehicle, its chassis and its wheels. Unknown ids
// are a no-op.
func (w *World) RemoveVehicle(id string) {
	link, exists := w.vehicles[id]
	if !exists {
		return
	}

	w.RemoveBody(link.BodyID)
	for _, wheelID := range link.WheelIDs {
		w.RemoveBody(wheelID)
	}

	delete(w.vehicles, id)
	for i, vid := range w.vehicleOrder {
		if vid == id {
			w.vehicleOrder = append(w.vehicleOrder[:i], w.vehicleOrder[i+1:]...)
			break
		}
	}

	w.logger.Debug().Str("vehicle", id).Msg("Vehicle removed")
}

// SetControls stores the driver inputs for a vehicle, clamped to their
// range. They are read by the force model at every step until replaced.
// Unknown ids are a no-op.
func (w *World) SetControls(id string, controls vehicle.Controls) {
	link, exists := w.vehicles[id]
	if !exists {
		return
	}

	link.Controls = controls.Clamped()
}

// GetPosition returns a position snapshot, valid until the next Step.
// Unknown ids return (zero, false), absence is not an error.
func (w *World) GetPosition(id string) (mgl64.Vec3, bool) {
	body, exists := w.bodyIndex[id]
	if !exists {
		return mgl64.Vec3{}, false
	}

	return body.Transform.Position, true
}

// GetRotation returns a rotation snapshot, valid until the next Step.
func (w *World) GetRotation(id string) (mgl64.Quat, bool) {
	body, exists := w.bodyIndex[id]
	if !exists {
		return mgl64.Quat{}, false
	}

	return body.Transform.Rotation, true
}

// GetVelocity returns a velocity snapshot, valid until the next Step.
func (w *World) GetVelocity(id string) (mgl64.Vec3, bool) {
	body, exists := w.bodyIndex[id]
	if !exists {
		return mgl64.Vec3{}, false
	}

	return body.Velocity, true
}

// Step advances the simulation. Time is accumulated and consumed in fixed
// slices of config.Timestep; a frame delivering a large dt runs several
// inner steps back to back, capped at MaxCatchUpSteps. When the cap is hit
// the remaining time is dropped rather than spiraling. There is no
// interpolation between inner steps: callers read the last committed state.
// Events are flushed once per call.
func (w *World) Step(dt float64) {
	w.accumulator += dt

	steps := 0
	for w.accumulator >= w.config.Timestep && steps < w.config.MaxCatchUpSteps {
		w.singleStep(w.config.Timestep)
		w.accumulator -= w.config.Timestep
		steps++
	}

	if w.accumulator >= w.config.Timestep {
		w.logger.Warn().
			Float64("dropped", w.accumulator).
			Int("steps", steps).
			Msg("Catch-up cap reached, dropping accumulated time")
		w.accumulator = 0
	}

	w.Events.processSleepEvents(w.bodies)
	w.Events.flush()
}

func (w *World) singleStep(h float64) {
	// Phase 1: détection des collisions
	contacts := w.detectCollisions()
	contacts = w.Events.recordCollisions(contacts)

	// Phase 2: résolution des contacts
	w.solve(contacts)

	// Phase 3: intégration et avance des transforms
	w.integrate(h)
	w.update(h)

	// Phase 4: mise en sommeil
	if w.config.EnableSleeping {
		w.trySleep()
	}

	// Phase 5: modèle de forces véhicule
	w.applyVehicles(h)
}

func (w *World) detectCollisions() []*constraint.Contact {
	return NarrowPhase(BroadPhase(w.grid, w.bodies), w.config.MaxContacts)
}

func (w *World) solve(contacts []*constraint.Contact) {
	for _, contact := range contacts {
		contact.SolveVelocity()
		contact.SolvePosition()
	}
}

func (w *World) integrate(h float64) {
	for _, body := range w.bodies {
		body.Integrate(w.config.Gravity, h)
	}
}

func (w *World) update(h float64) {
	for _, body := range w.bodies {
		body.Update(h)
	}
}

func (w *World) trySleep() {
	for _, body := range w.bodies {
		body.TrySleep(w.config.SleepThreshold)
	}
}

// applyVehicles runs the force model on every vehicle in registration
// order, then snaps the wheels onto the fresh chassis pose.
func (w *World) applyVehicles(h float64) {
	for _, id := range w.vehicleOrder {
		link := w.vehicles[id]

		chassis, exists := w.bodyIndex[link.BodyID]
		if !exists {
			continue
		}

		vehicle.Apply(link, chassis, h)

		var wheels [vehicle.WheelCount]*actor.Body
		for i, wheelID := range link.WheelIDs {
			wheels[i] = w.bodyIndex[wheelID]
		}
		vehicle.SyncWheels(link.Spec, chassis, wheels[:])
	}
}

// generateID returns an unused opaque body id.
func (w *World) generateID() string {
	for {
		id := fmt.Sprintf("b#%d", w.nextBodyID)
		w.nextBodyID++

		if _, exists := w.bodyIndex[id]; !exists {
			return id
		}
	}
}
