package actor

// Material describes the surface and density properties of a body.
// Friction and Restitution are combined pairwise at contact generation,
// Density is only consulted when mass is derived from the shape volume.
type Material struct {
	Friction    float64 // 0 = ice, 1 = full grip
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
	Density     float64 // kg/m³
}

// DefaultMaterial is a reasonable general-purpose surface
func DefaultMaterial() Material {
	return Material{
		Friction:    0.6,
		Restitution: 0.2,
		Density:     1000.0,
	}
}
