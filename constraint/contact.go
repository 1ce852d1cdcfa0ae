// Package constraint resolves contacts between rigid bodies with a
// sequential impulse solver: one velocity impulse and one positional
// correction per contact, applied pair by pair.
package constraint

import (
	"math"

	"github.com/akmonengine/torque/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// PositionCorrectionFactor is the Baumgarte coefficient: the fraction of
	// the remaining penetration removed per step. Higher values separate
	// faster but make stacked bodies jitter.
	PositionCorrectionFactor = 0.2

	velocityEpsilon = 1e-5
)

// ContactPoint describes a single point of contact between two bodies.
// Friction and Restitution are already combined from both materials.
type ContactPoint struct {
	Point       mgl64.Vec3 // world position
	Normal      mgl64.Vec3 // unit vector, oriented from body A towards body B
	Penetration float64    // overlap depth along the normal, > 0 when overlapping
	Friction    float64
	Restitution float64
}

// Contact binds a contact point to the pair of bodies that produced it
type Contact struct {
	BodyA *actor.Body
	BodyB *actor.Body
	Point ContactPoint
}

// SolveVelocity applies the restitution impulse along the contact normal.
// The impulse magnitude is normalized by the combined inverse mass, so a
// heavy body barely moves while a light one takes most of the correction.
// Separating pairs are left alone.
func (c *Contact) SolveVelocity() {
	if c.BodyA.IsSleeping && c.BodyB.IsSleeping {
		return
	}

	invMassA := c.BodyA.InverseMass()
	invMassB := c.BodyB.InverseMass()
	totalInverseMass := invMassA + invMassB
	if totalInverseMass <= 0 {
		return
	}

	// ========== Relative velocity along the normal ==========
	relativeVel := c.BodyB.Velocity.Sub(c.BodyA.Velocity)
	normalVel := relativeVel.Dot(c.Point.Normal)

	// Les corps s'éloignent déjà : rien à résoudre
	if normalVel >= 0 {
		return
	}

	// ========== Normal impulse (restitution) ==========
	lambda := -(1.0 + c.Point.Restitution) * normalVel / totalInverseMass
	impulse := c.Point.Normal.Mul(lambda)

	c.BodyA.Velocity = c.BodyA.Velocity.Sub(impulse.Mul(invMassA))
	c.BodyB.Velocity = c.BodyB.Velocity.Add(impulse.Mul(invMassB))

	clampSmallVelocities(c.BodyA)
	clampSmallVelocities(c.BodyB)
}

// SolvePosition pushes the bodies apart along the normal, removing a fixed
// fraction of the penetration. The correction is split by inverse mass:
// static bodies (inverse mass 0) never move.
func (c *Contact) SolvePosition() {
	if c.BodyA.IsSleeping && c.BodyB.IsSleeping {
		return
	}
	if c.Point.Penetration <= 0 {
		return
	}

	invMassA := c.BodyA.InverseMass()
	invMassB := c.BodyB.InverseMass()
	totalInverseMass := invMassA + invMassB
	if totalInverseMass <= 0 {
		return
	}

	correction := c.Point.Normal.Mul(c.Point.Penetration * PositionCorrectionFactor / totalInverseMass)

	c.BodyA.Transform.Position = c.BodyA.Transform.Position.Sub(correction.Mul(invMassA))
	c.BodyB.Transform.Position = c.BodyB.Transform.Position.Add(correction.Mul(invMassB))
}

// ComputeFriction combines two materials into a single friction coefficient.
// The pair behaves like its most slippery member.
func ComputeFriction(a, b actor.Material) float64 {
	return math.Min(a.Friction, b.Friction)
}

// ComputeRestitution combines two materials into a single restitution
// coefficient. The pair behaves like its least bouncy member.
func ComputeRestitution(a, b actor.Material) float64 {
	return math.Min(a.Restitution, b.Restitution)
}

// clampSmallVelocities snaps near-zero velocities to zero to avoid
// accumulating numerical noise between steps
func clampSmallVelocities(body *actor.Body) {
	if body.Velocity.Len() < velocityEpsilon {
		body.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if body.AngularVelocity.Len() < velocityEpsilon {
		body.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
