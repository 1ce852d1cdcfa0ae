package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind identifies the collision shape family
type ShapeKind int

const (
	ShapeKindBox ShapeKind = iota
	ShapeKindCylinder
	ShapeKindSphere
)

// Shape is the interface that all collision shapes implement.
// Shapes are immutable descriptors: they carry no per-body state and may be
// shared between bodies.
type Shape interface {
	Kind() ShapeKind
	// Extents returns the half-extents of the shape's local bounding box
	Extents() mgl64.Vec3
	// Volume in m³, used to derive mass from density
	Volume() float64
	// Inertia returns the diagonal of the inertia tensor for the given mass
	Inertia(mass float64) mgl64.Vec3
}

// ComputeAABB returns the world bounding box for a shape at the given
// transform. The extents are taken as-is from the shape (no corner
// rotation): the simulation works on bounding-box approximations, so a
// rotated long box keeps its axis-aligned footprint. The local offset is
// rotated into world space before translating.
func ComputeAABB(shape Shape, transform Transform, offset mgl64.Vec3) AABB {
	center := transform.Position.Add(transform.Rotation.Rotate(offset))
	return NewAABB(center, shape.Extents())
}

// Box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Kind() ShapeKind { return ShapeKindBox }

func (b Box) Extents() mgl64.Vec3 { return b.HalfExtents }

func (b Box) Volume() float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	return 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()
}

func (b Box) Inertia(mass float64) mgl64.Vec3 {
	// Dimensions complètes
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// Formule pour une boîte : I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0

	return mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	}
}

// Cylinder is aligned with the local Y axis, used for wheels
type Cylinder struct {
	Radius     float64
	HalfHeight float64
}

func (c Cylinder) Kind() ShapeKind { return ShapeKindCylinder }

func (c Cylinder) Extents() mgl64.Vec3 {
	return mgl64.Vec3{c.Radius, c.HalfHeight, c.Radius}
}

func (c Cylinder) Volume() float64 {
	// Volume = π * r² * h
	return math.Pi * c.Radius * c.Radius * (2 * c.HalfHeight)
}

func (c Cylinder) Inertia(mass float64) mgl64.Vec3 {
	h := 2 * c.HalfHeight
	r2 := c.Radius * c.Radius

	// Autour de l'axe du cylindre : I = (1/2) * m * r²
	// Autour des axes transverses : I = (1/12) * m * (3r² + h²)
	transverse := mass / 12.0 * (3*r2 + h*h)

	return mgl64.Vec3{
		transverse,
		0.5 * mass * r2,
		transverse,
	}
}

// Sphere is defined by its radius
type Sphere struct {
	Radius float64
}

func (s Sphere) Kind() ShapeKind { return ShapeKindSphere }

func (s Sphere) Extents() mgl64.Vec3 {
	return mgl64.Vec3{s.Radius, s.Radius, s.Radius}
}

func (s Sphere) Volume() float64 {
	// Volume of sphere = (4/3) * π * r³
	return (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)
}

func (s Sphere) Inertia(mass float64) mgl64.Vec3 {
	// Pour une sphère : I = (2/5) * m * r², identique sur tous les axes
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Vec3{i, i, i}
}
