// Package vehicle implements the arcade car model driven on top of the
// rigid-body core: a box chassis plus four cylinder wheels, moved by an
// engine/brake/steering force model rather than by wheel contact physics.
package vehicle

import (
	"fmt"

	"github.com/akmonengine/torque/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Default profile, applied field by field when the caller leaves a value at zero.
const (
	DEFAULT_MASS_KG              = 1200.0
	DEFAULT_ENGINE_POWER_WATTS   = 48000.0
	DEFAULT_MAX_SPEED_KPH        = 180.0
	DEFAULT_BRAKE_FORCE          = 9000.0
	DEFAULT_DRAG_COEFFICIENT     = 0.35
	DEFAULT_FRONTAL_AREA         = 2.2
	DEFAULT_RIDE_HEIGHT          = 0.5
	DEFAULT_SUSPENSION_STIFFNESS = 60000.0
	DEFAULT_SUSPENSION_DAMPING   = 8000.0
	DEFAULT_WHEELBASE            = 2.7
	DEFAULT_TRACK                = 1.5
	DEFAULT_WHEEL_RADIUS         = 0.33
	DEFAULT_WHEEL_WIDTH          = 0.25
	DEFAULT_FRICTION             = 0.6
	DEFAULT_RESTITUTION          = 0.2
)

// WheelCount is fixed: front-left, front-right, rear-left, rear-right.
const WheelCount = 4

// Controls is the per-frame driver input. Values outside their range are
// clamped, never rejected.
type Controls struct {
	Throttle  float64 // [0, 1]
	Brake     float64 // [0, 1]
	Steering  float64 // [-1, 1], positive turns right
	Handbrake bool
}

// Clamped returns the controls with every signal folded back into its range.
func (c Controls) Clamped() Controls {
	c.Throttle = clamp(c.Throttle, 0, 1)
	c.Brake = clamp(c.Brake, 0, 1)
	c.Steering = clamp(c.Steering, -1, 1)

	return c
}

// Active reports whether any control signal is engaged.
func (c Controls) Active() bool {
	return c.Throttle > 0 || c.Brake > 0 || c.Steering != 0 || c.Handbrake
}

// Spec describes one vehicle: identity, initial pose, and its physical
// profile. Zero-valued fields are replaced by defaults at registration.
type Spec struct {
	ID string

	// Chassis box, full extents (width, height, length)
	Dimensions mgl64.Vec3
	Position   mgl64.Vec3
	Rotation   mgl64.Quat

	MassKg              float64
	EnginePowerWatts    float64
	MaxSpeedKPH         float64
	BrakeForce          float64
	DragCoefficient     float64
	FrontalArea         float64
	RideHeight          float64
	SuspensionStiffness float64
	SuspensionDamping   float64

	// Wheel layout
	Wheelbase   float64
	Track       float64
	WheelRadius float64
	WheelWidth  float64

	Friction    float64
	Restitution float64
}

// WithDefaults returns a copy of s with zero-valued fields filled in.
func (s Spec) WithDefaults() Spec {
	if s.Dimensions == (mgl64.Vec3{}) {
		s.Dimensions = mgl64.Vec3{1.8, 1.4, 4.5}
	}
	if s.Rotation == (mgl64.Quat{}) {
		s.Rotation = mgl64.QuatIdent()
	}
	if s.MassKg == 0 {
		s.MassKg = DEFAULT_MASS_KG
	}
	if s.EnginePowerWatts == 0 {
		s.EnginePowerWatts = DEFAULT_ENGINE_POWER_WATTS
	}
	if s.MaxSpeedKPH == 0 {
		s.MaxSpeedKPH = DEFAULT_MAX_SPEED_KPH
	}
	if s.BrakeForce == 0 {
		s.BrakeForce = DEFAULT_BRAKE_FORCE
	}
	if s.DragCoefficient == 0 {
		s.DragCoefficient = DEFAULT_DRAG_COEFFICIENT
	}
	if s.FrontalArea == 0 {
		s.FrontalArea = DEFAULT_FRONTAL_AREA
	}
	if s.RideHeight == 0 {
		s.RideHeight = DEFAULT_RIDE_HEIGHT
	}
	if s.SuspensionStiffness == 0 {
		s.SuspensionStiffness = DEFAULT_SUSPENSION_STIFFNESS
	}
	if s.SuspensionDamping == 0 {
		s.SuspensionDamping = DEFAULT_SUSPENSION_DAMPING
	}
	if s.Wheelbase == 0 {
		s.Wheelbase = DEFAULT_WHEELBASE
	}
	if s.Track == 0 {
		s.Track = DEFAULT_TRACK
	}
	if s.WheelRadius == 0 {
		s.WheelRadius = DEFAULT_WHEEL_RADIUS
	}
	if s.WheelWidth == 0 {
		s.WheelWidth = DEFAULT_WHEEL_WIDTH
	}
	if s.Friction == 0 {
		s.Friction = DEFAULT_FRICTION
	}
	if s.Restitution == 0 {
		s.Restitution = DEFAULT_RESTITUTION
	}

	return s
}

// Validate rejects physically impossible profiles. Zero values are legal,
// they mean "use the default".
func (s Spec) Validate() error {
	if s.MassKg < 0 {
		return fmt.Errorf("%w: negative vehicle mass %g", actor.ErrInvalidBodyConfig, s.MassKg)
	}

	return nil
}

// Link ties a registered vehicle to its bodies. The world owns the bodies,
// the link only holds their ids.
type Link struct {
	VehicleID string
	BodyID    string
	WheelIDs  [WheelCount]string
	Spec      Spec
	Controls  Controls
}

// NewChassis builds the chassis body from a defaulted spec.
func NewChassis(spec Spec) (*actor.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	shape := actor.Box{HalfExtents: spec.Dimensions.Mul(0.5)}
	material := actor.Material{Friction: spec.Friction, Restitution: spec.Restitution}

	chassis, err := actor.NewBody(spec.ID, actor.BodyTypeVehicle, shape, material, spec.MassKg)
	if err != nil {
		return nil, err
	}

	chassis.Transform.Position = spec.Position
	chassis.Transform.Rotation = spec.Rotation
	chassis.Owner = actor.VehicleOwner(spec.ID)

	return chassis, nil
}

// NewWheel builds one wheel body from a defaulted spec. The id is an opaque
// world-generated id; the wheel→vehicle relation lives in Owner.
func NewWheel(spec Spec, index int, id string) (*actor.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if index < 0 || index >= WheelCount {
		return nil, fmt.Errorf("%w: wheel index %d out of range", actor.ErrInvalidBodyConfig, index)
	}

	shape := actor.Cylinder{Radius: spec.WheelRadius, HalfHeight: spec.WheelWidth / 2}
	material := actor.Material{Friction: spec.Friction, Restitution: spec.Restitution}

	wheel, err := actor.NewBody(id, actor.BodyTypeVehicle, shape, material, spec.MassKg*WHEEL_MASS_FRACTION)
	if err != nil {
		return nil, err
	}

	wheel.Transform.Position = spec.Position.Add(spec.Rotation.Rotate(WheelOffset(spec, index)))
	wheel.Transform.Rotation = spec.Rotation
	wheel.Owner = actor.WheelOwner(spec.ID, index)

	return wheel, nil
}

// WheelOffset is the wheel mount point in the chassis frame, ordered
// front-left, front-right, rear-left, rear-right. Forward is +Z, right is
// +X; the vertical offset puts the wheel center at ground contact when the
// chassis sits at ride height.
func WheelOffset(spec Spec, index int) mgl64.Vec3 {
	x := spec.Track / 2
	if index == 0 || index == 2 {
		x = -x // côté gauche
	}

	z := spec.Wheelbase / 2
	if index >= 2 {
		z = -z // essieu arrière
	}

	return mgl64.Vec3{x, spec.WheelRadius - spec.RideHeight, z}
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
