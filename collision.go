package torque

import (
	"github.com/akmonengine/torque/actor"
	"github.com/akmonengine/torque/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const coincidentEpsilon = 1e-9

// BroadPhase reconstruit la grille spatiale depuis zéro et retourne les
// paires candidates. La grille n'est jamais mise à jour incrémentalement :
// une reconstruction par step évite tout état périmé.
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.Body) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		if !body.IsActive {
			continue
		}
		spatialGrid.Insert(i, body)
	}

	return spatialGrid.FindPairs(bodies)
}

// NarrowPhase génère au plus un contact par paire candidate. Le nombre total
// de contacts est plafonné à maxContacts, les paires excédentaires sont
// ignorées pour ce step.
func NarrowPhase(pairs []Pair, maxContacts int) []*constraint.Contact {
	contacts := make([]*constraint.Contact, 0, len(pairs))

	for _, pair := range pairs {
		if maxContacts > 0 && len(contacts) >= maxContacts {
			break
		}

		contact, ok := generateContact(pair.BodyA, pair.BodyB)
		if !ok {
			continue
		}
		contacts = append(contacts, contact)
	}

	return contacts
}

// generateContact construit le point de contact unique d'une paire : normale
// entre les centres, pénétration estimée depuis les AABB, point au milieu.
// Une approximation grossière mais stable, suffisante pour des caisses et
// des véhicules en arcade.
func generateContact(bodyA, bodyB *actor.Body) (*constraint.Contact, bool) {
	delta := bodyB.Transform.Position.Sub(bodyA.Transform.Position)
	distance := delta.Len()

	// Centres confondus : direction arbitraire mais déterministe
	normal := mgl64.Vec3{0, 1, 0}
	if distance > coincidentEpsilon {
		normal = delta.Mul(1.0 / distance)
	}

	aabbA := bodyA.AABB()
	aabbB := bodyB.AABB()
	sizeA := aabbA.Max.Sub(aabbA.Min).Len()
	sizeB := aabbB.Max.Sub(aabbB.Min).Len()

	penetration := (sizeA+sizeB)/2.0 - distance
	if penetration <= 0 {
		return nil, false
	}

	contact := &constraint.Contact{
		BodyA: bodyA,
		BodyB: bodyB,
		Point: constraint.ContactPoint{
			Point:       bodyA.Transform.Position.Add(delta.Mul(0.5)),
			Normal:      normal,
			Penetration: penetration,
			Friction:    constraint.ComputeFriction(bodyA.Material, bodyB.Material),
			Restitution: constraint.ComputeRestitution(bodyA.Material, bodyB.Material),
		},
	}

	return contact, true
}
