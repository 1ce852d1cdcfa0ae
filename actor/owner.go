package actor

// OwnerKind discriminates who a body belongs to
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerStatic
	OwnerVehicle
	OwnerWheel
)

// Owner is the typed body-to-owner relation. A vehicle chassis carries its
// vehicle id, a wheel carries the parent vehicle id plus its mount index.
// The relation is structural: body ids stay opaque and are never parsed.
type Owner struct {
	Kind       OwnerKind
	VehicleID  string
	WheelIndex int
}

// VehicleOwner tags a body as a vehicle chassis
func VehicleOwner(vehicleID string) Owner {
	return Owner{Kind: OwnerVehicle, VehicleID: vehicleID}
}

// WheelOwner tags a body as the index-th wheel of a vehicle
func WheelOwner(vehicleID string, index int) Owner {
	return Owner{Kind: OwnerWheel, VehicleID: vehicleID, WheelIndex: index}
}

// StaticOwner tags scenery bodies
func StaticOwner() Owner {
	return Owner{Kind: OwnerStatic}
}

// SameVehicle reports whether both owners belong to the same vehicle
// (chassis against its own wheel, or two sibling wheels). Such pairs are
// filtered out of collision detection.
func (o Owner) SameVehicle(other Owner) bool {
	if o.VehicleID == "" || other.VehicleID == "" {
		return false
	}

	return o.VehicleID == other.VehicleID
}
