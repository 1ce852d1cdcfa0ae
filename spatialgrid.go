package torque

import (
	"math"

	"github.com/akmonengine/torque/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule sur le plan XZ.
// La grille ignore l'axe Y : les scènes de conduite sont plates, empiler
// les corps verticalement dans des cellules distinctes n'apporte rien.
type CellKey struct {
	X, Z int
}

// Cell - Conteneur d'indices de bodies dans une cellule
type Cell struct {
	bodyIndices []int
}

// Pair - Paire de bodies potentiellement en collision
type Pair struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

// SpatialGrid - Grille spatiale uniforme avec hashing pour broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// Réutilisés entre appels pour dédupliquer les candidats sans allouer
	seen    []bool
	touched []int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un body dans toutes les cellules couvertes par son AABB.
// Un corps à cheval sur plusieurs cellules est inséré dans chacune, pour que
// les paires trans-cellules soient quand même détectées.
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.Body) {
	aabb := body.AABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for z := minCell.Z; z <= maxCell.Z; z++ {
			cellIdx := sg.hashCell(CellKey{x, z})

			sg.cells[cellIdx].bodyIndices = append(
				sg.cells[cellIdx].bodyIndices,
				bodyIndex,
			)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

// FindPairs - Parcours séquentiel des cellules, émission des paires en ordre
// d'index croissant. L'ordre de sortie ne dépend que de l'ordre du slice
// d'entrée, jamais d'une itération de map.
func (sg *SpatialGrid) FindPairs(bodies []*actor.Body) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)

	if len(sg.seen) < len(bodies) {
		sg.seen = make([]bool, len(bodies))
	}

	// ========== BOUCLE SUR BODIES ==========
	for bodyIdx := 0; bodyIdx < len(bodies); bodyIdx++ {
		bodyA := bodies[bodyIdx]
		if !bodyA.IsActive {
			continue
		}

		aabbA := bodyA.AABB()
		minCell := sg.worldToCell(aabbA.Min)
		maxCell := sg.worldToCell(aabbA.Max)

		// Parcourir ces cellules
		for x := minCell.X; x <= maxCell.X; x++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, z})

				// Tester contre tous les bodies dans cette cellule
				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					// ========== ORDRE DÉTERMINISTE ==========
					if otherIdx <= bodyIdx {
						continue // Évite doublons (A,B) et (B,A)
					}
					// Un corps couvrant plusieurs cellules n'est testé qu'une fois
					if sg.seen[otherIdx] {
						continue
					}
					sg.seen[otherIdx] = true
					sg.touched = append(sg.touched, otherIdx)

					bodyB := bodies[otherIdx]

					// Checks
					if !bodyB.IsActive {
						continue
					}
					if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
						continue
					}
					if bodyA.IsSleeping && bodyB.IsSleeping {
						continue
					}
					// Le châssis et ses roues ne se collisionnent jamais entre eux
					if bodyA.Owner.SameVehicle(bodyB.Owner) {
						continue
					}

					if aabbA.Overlaps(bodyB.AABB()) {
						pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
					}
				}
			}
		}

		// Reset du marquage pour le body suivant
		for _, idx := range sg.touched {
			sg.seen[idx] = false
		}
		sg.touched = sg.touched[:0]
	}

	return pairs
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
