package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidBodyConfig is returned when a body is created with parameters
// that would corrupt integration (negative mass or density).
var ErrInvalidBodyConfig = errors.New("invalid body config")

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable (mass 0, never integrated),
	// e.g. ground obstacles and walls
	BodyTypeStatic

	// BodyTypeVehicle bodies are dynamic bodies driven by the vehicle
	// force model on top of the generic integration
	BodyTypeVehicle
)

// Per-step velocity decay applied by Integrate, identical for every body
const VelocityDamping = 0.01

const angularEpsilon = 1e-9

// Body represents a rigid body in the physics simulation.
// Bodies are owned by the World registry and addressed by id; collaborators
// hold the id only and re-fetch state after each step.
type Body struct {
	ID       string
	BodyType BodyType
	Owner    Owner

	// Spatial state
	Transform       Transform
	Velocity        mgl64.Vec3 // linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // axis-angle rate (rad/s)

	// Mass properties. Mass 0 means immovable; Inertia is the diagonal
	// approximation of the tensor, derived from the shape at creation.
	Mass           float64
	Inertia        mgl64.Vec3
	InverseInertia mgl64.Vec3
	CenterOfMass   mgl64.Vec3 // local offset, informational

	// Collision
	Shape       Shape
	ShapeOffset mgl64.Vec3 // local offset of the collision geometry
	Material    Material

	IsActive   bool
	IsSleeping bool
	IsTrigger  bool

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3
}

// NewBody creates a body with an explicit mass. Static bodies are forced to
// mass 0 whatever the caller passed. A negative mass is the one configuration
// rejected with an error instead of a silent fallback.
func NewBody(id string, bodyType BodyType, shape Shape, material Material, mass float64) (*Body, error) {
	if mass < 0 {
		return nil, fmt.Errorf("%w: negative mass %g for body %q", ErrInvalidBodyConfig, mass, id)
	}
	if shape == nil {
		return nil, fmt.Errorf("%w: nil shape for body %q", ErrInvalidBodyConfig, id)
	}

	if bodyType == BodyTypeStatic {
		mass = 0
	}

	body := &Body{
		ID:        id,
		BodyType:  bodyType,
		Transform: NewTransform(),
		Mass:      mass,
		Shape:     shape,
		Material:  material,
		IsActive:  true,
	}
	body.Inertia = shape.Inertia(mass)
	body.InverseInertia = invertDiagonal(body.Inertia)

	return body, nil
}

// NewBodyFromDensity creates a body whose mass is derived from the shape
// volume and the material density.
func NewBodyFromDensity(id string, bodyType BodyType, shape Shape, material Material) (*Body, error) {
	if material.Density < 0 {
		return nil, fmt.Errorf("%w: negative density %g for body %q", ErrInvalidBodyConfig, material.Density, id)
	}
	if shape == nil {
		return nil, fmt.Errorf("%w: nil shape for body %q", ErrInvalidBodyConfig, id)
	}

	return NewBody(id, bodyType, shape, material, material.Density*shape.Volume())
}

// InverseMass returns 1/mass, or 0 for immovable bodies
func (b *Body) InverseMass() float64 {
	if b.Mass <= 0 {
		return 0
	}

	return 1.0 / b.Mass
}

// AABB returns the current world bounding box of the body
func (b *Body) AABB() AABB {
	return ComputeAABB(b.Shape, b.Transform, b.ShapeOffset)
}

// Integrate applies gravity, accumulated forces/torques and the fixed
// per-step damping to the velocities. Positions are advanced by Update.
func (b *Body) Integrate(gravity mgl64.Vec3, dt float64) {
	if !b.IsActive || b.IsSleeping || b.Mass <= 0 {
		return
	}

	invMass := 1.0 / b.Mass
	b.Velocity = b.Velocity.Add(gravity.Mul(dt))
	b.Velocity = b.Velocity.Add(b.accumulatedForce.Mul(invMass * dt))

	b.AngularVelocity = b.AngularVelocity.Add(mulElem(b.accumulatedTorque, b.InverseInertia).Mul(dt))

	b.Velocity = b.Velocity.Mul(1.0 - VelocityDamping)
	b.AngularVelocity = b.AngularVelocity.Mul(1.0 - VelocityDamping)

	b.ClearForces()
}

// Update advances position and rotation from the current velocities.
// The rotation step builds a quaternion from the angular velocity axis and
// |ω|·dt; near-zero rates leave the orientation untouched.
func (b *Body) Update(dt float64) {
	if !b.IsActive || b.IsSleeping || b.Mass <= 0 {
		return
	}

	b.Transform.Position = b.Transform.Position.Add(b.Velocity.Mul(dt))

	rate := b.AngularVelocity.Len()
	if rate > angularEpsilon {
		axis := b.AngularVelocity.Mul(1.0 / rate)
		spin := mgl64.QuatRotate(rate*dt, axis)
		b.Transform.Rotation = spin.Mul(b.Transform.Rotation).Normalize()
	}
}

// TrySleep recomputes the sleep flag from the current velocities. It runs
// every step, so a body disturbed by an impulse wakes on the next
// evaluation without any explicit wake call.
func (b *Body) TrySleep(velocityThreshold float64) {
	if !b.IsActive || b.Mass <= 0 {
		return
	}

	b.IsSleeping = b.Velocity.Len() < velocityThreshold &&
		b.AngularVelocity.Len() < velocityThreshold
}

// Awake clears the sleep flag, typically because a force was applied
func (b *Body) Awake() {
	b.IsSleeping = false
}

// AddForce accumulates a force in N, applied at the next Integrate
func (b *Body) AddForce(force mgl64.Vec3) {
	if b.Mass <= 0 {
		return
	}

	b.Awake()
	b.accumulatedForce = b.accumulatedForce.Add(force)
}

// AddTorque accumulates a torque in N·m, applied at the next Integrate
func (b *Body) AddTorque(torque mgl64.Vec3) {
	if b.Mass <= 0 {
		return
	}

	b.Awake()
	b.accumulatedTorque = b.accumulatedTorque.Add(torque)
}

// ApplyImpulse changes the velocity immediately (Δv = impulse/mass)
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	if b.Mass <= 0 {
		return
	}

	b.Awake()
	b.Velocity = b.Velocity.Add(impulse.Mul(1.0 / b.Mass))
}

func (b *Body) ClearForces() {
	b.accumulatedForce = mgl64.Vec3{0, 0, 0}
	b.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

func invertDiagonal(inertia mgl64.Vec3) mgl64.Vec3 {
	var inverse mgl64.Vec3
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 && !math.IsInf(inertia[i], 1) {
			inverse[i] = 1.0 / inertia[i]
		}
	}

	return inverse
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
