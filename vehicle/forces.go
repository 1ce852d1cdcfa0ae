package vehicle

import (
	"math"

	"github.com/akmonengine/torque/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	AIR_DENSITY = 1.29

	// Steering: full lock yaw rate in rad/s, scaled down below the
	// reference speed so the car cannot pivot in place.
	TURN_RATE            = 2.5
	TURN_REFERENCE_SPEED = 12.0
	HANDBRAKE_TURN_BOOST = 1.35

	// Fraction of the lateral velocity kept per step. Higher means less
	// grip: the handbrake value lets the rear slide out.
	GRIP_FACTOR           = 0.85
	HANDBRAKE_GRIP_FACTOR = 0.96

	HANDBRAKE_FORCE     = 6000.0
	WHEEL_MASS_FRACTION = 0.05
)

const speedEpsilon = 1e-9

// Apply runs the whole force model for one step on the chassis, in a fixed
// order: engine, speed clamp, brake, steering, lateral grip, suspension,
// drag. Velocities are written directly; the integrator advances the
// position on the next step.
func Apply(link *Link, chassis *actor.Body, dt float64) {
	if chassis == nil || !chassis.IsActive || chassis.Mass <= 0 {
		return
	}

	controls := link.Controls

	// Une voiture endormie ne bouge pas, sauf si le conducteur insiste.
	if chassis.IsSleeping {
		if !controls.Active() {
			return
		}
		chassis.Awake()
	}

	spec := link.Spec

	applyEngine(chassis, spec, controls, dt)
	clampSpeed(chassis, spec)
	applyBrake(chassis, spec, controls, dt)
	applySteering(chassis, controls)
	applyGrip(chassis, controls)
	applySuspension(chassis, spec, dt)
	applyDrag(chassis, spec, dt)
}

// applyEngine accelerates along the chassis forward axis.
func applyEngine(chassis *actor.Body, spec Spec, controls Controls, dt float64) {
	if controls.Throttle <= 0 {
		return
	}

	forward := chassis.Transform.Forward()
	accel := spec.EnginePowerWatts * controls.Throttle * dt / chassis.Mass
	chassis.Velocity = chassis.Velocity.Add(forward.Mul(accel))
}

// clampSpeed rescales the velocity vector so its magnitude never exceeds the
// rated max speed. The direction is preserved, never zeroed.
func clampSpeed(chassis *actor.Body, spec Spec) {
	maxSpeed := spec.MaxSpeedKPH / 3.6

	speed := chassis.Velocity.Len()
	if speed > maxSpeed && speed > speedEpsilon {
		chassis.Velocity = chassis.Velocity.Mul(maxSpeed / speed)
	}
}

// applyBrake decelerates along the horizontal velocity direction. The
// deceleration is capped at the current speed: braking stops the car, it
// never makes it roll backwards.
func applyBrake(chassis *actor.Body, spec Spec, controls Controls, dt float64) {
	if controls.Brake <= 0 && !controls.Handbrake {
		return
	}

	horizontal := mgl64.Vec3{chassis.Velocity.X(), 0, chassis.Velocity.Z()}
	speed := horizontal.Len()
	if speed < speedEpsilon {
		return
	}

	decel := spec.BrakeForce * controls.Brake * dt / chassis.Mass
	if controls.Handbrake {
		decel += HANDBRAKE_FORCE * dt / chassis.Mass
	}
	if decel > speed {
		decel = speed
	}

	chassis.Velocity = chassis.Velocity.Sub(horizontal.Mul(decel / speed))
}

// applySteering writes the yaw rate from the steering signal. The rate is
// rewritten every step, so releasing the wheel stops the turn; it scales
// with speed below the reference so there is no yaw at standstill.
func applySteering(chassis *actor.Body, controls Controls) {
	speed := math.Hypot(chassis.Velocity.X(), chassis.Velocity.Z())
	factor := math.Min(speed/TURN_REFERENCE_SPEED, 1)

	boost := 1.0
	if controls.Handbrake {
		boost = HANDBRAKE_TURN_BOOST
	}

	chassis.AngularVelocity[1] = controls.Steering * TURN_RATE * factor * boost
}

// applyGrip decomposes the horizontal velocity in the car frame and decays
// the lateral component, keeping the car on its trajectory. Under handbrake
// most of the lateral velocity survives and the car slides.
func applyGrip(chassis *actor.Body, controls Controls) {
	forward := chassis.Transform.Forward()
	forwardH := mgl64.Vec3{forward.X(), 0, forward.Z()}
	if forwardH.Len() < speedEpsilon {
		// Voiture à la verticale : pas de repère horizontal exploitable
		return
	}
	forwardH = forwardH.Normalize()

	horizontal := mgl64.Vec3{chassis.Velocity.X(), 0, chassis.Velocity.Z()}
	along := forwardH.Mul(horizontal.Dot(forwardH))
	lateral := horizontal.Sub(along)

	grip := GRIP_FACTOR
	if controls.Handbrake {
		grip = HANDBRAKE_GRIP_FACTOR
	}

	kept := along.Add(lateral.Mul(grip))
	chassis.Velocity = mgl64.Vec3{kept.X(), chassis.Velocity.Y(), kept.Z()}
}

// applySuspension is a flat-ground spring-damper on the vertical axis. The
// spring is two-sided: it pulls the chassis down when it floats above ride
// height and pushes it up when it sags below, so the car settles near ride
// height instead of sinking through the ground.
func applySuspension(chassis *actor.Body, spec Spec, dt float64) {
	spring := (chassis.Transform.Position.Y() - spec.RideHeight) * spec.SuspensionStiffness
	damper := chassis.Velocity.Y() * spec.SuspensionDamping

	chassis.Velocity[1] -= (spring + damper) * dt / chassis.Mass
}

// applyDrag opposes the velocity with the quadratic aerodynamic force,
// capped so drag alone never reverses the motion.
func applyDrag(chassis *actor.Body, spec Spec, dt float64) {
	speed := chassis.Velocity.Len()
	if speed < speedEpsilon {
		return
	}

	drag := 0.5 * spec.DragCoefficient * spec.FrontalArea * AIR_DENSITY * speed * speed
	decel := drag * dt / chassis.Mass
	if decel > speed {
		decel = speed
	}

	chassis.Velocity = chassis.Velocity.Sub(chassis.Velocity.Mul(decel / speed))
}

// SyncWheels recomputes every wheel transform from the chassis pose and the
// wheel mount offsets. Wheels never integrate on their own, they mirror the
// chassis.
func SyncWheels(spec Spec, chassis *actor.Body, wheels []*actor.Body) {
	for i, wheel := range wheels {
		if wheel == nil {
			continue
		}

		offset := chassis.Transform.Rotation.Rotate(WheelOffset(spec, i))
		wheel.Transform.Position = chassis.Transform.Position.Add(offset)
		wheel.Transform.Rotation = chassis.Transform.Rotation
		wheel.Velocity = chassis.Velocity
		wheel.AngularVelocity = chassis.AngularVelocity
		wheel.IsSleeping = chassis.IsSleeping
	}
}
