package main

import (
	"fmt"

	"github.com/akmonengine/torque"
	"github.com/akmonengine/torque/actor"
	"github.com/akmonengine/torque/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// SetupScene creates the demo scene: a car, two crates on its path and a
// checkpoint trigger between them
func SetupScene() (*torque.World, error) {
	world := torque.NewWorld(torque.DefaultConfig(), zerolog.Nop())

	// Deux caisses à éviter
	cratePositions := []mgl64.Vec3{
		{1.5, 0.5, 20},
		{-1.5, 0.5, 45},
	}
	for i, pos := range cratePositions {
		crate, err := actor.NewBody(
			fmt.Sprintf("crate-%d", i),
			actor.BodyTypeStatic,
			actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
			actor.Material{Friction: 0.8, Restitution: 0.3},
			0,
		)
		if err != nil {
			return nil, err
		}
		crate.Transform.Position = pos
		crate.Owner = actor.StaticOwner()

		if err := world.AddBody(crate); err != nil {
			return nil, err
		}
	}

	// Un checkpoint à mi-course : traverse sans repousser
	checkpoint, err := actor.NewBody(
		"checkpoint",
		actor.BodyTypeStatic,
		actor.Box{HalfExtents: mgl64.Vec3{4, 2, 0.5}},
		actor.DefaultMaterial(),
		0,
	)
	if err != nil {
		return nil, err
	}
	checkpoint.Transform.Position = mgl64.Vec3{0, 1, 32}
	checkpoint.IsTrigger = true

	if err := world.AddBody(checkpoint); err != nil {
		return nil, err
	}

	// La voiture, profil par défaut
	_, err = world.AddVehicle(vehicle.Spec{
		ID:       "car",
		Position: mgl64.Vec3{0, vehicle.DEFAULT_RIDE_HEIGHT, 0},
	})
	if err != nil {
		return nil, err
	}

	return world, nil
}

// controlsForStep returns the driver inputs of the demo script:
// full throttle, a slalom around the crates, then a hard stop.
func controlsForStep(step int) vehicle.Controls {
	switch {
	case step < 100:
		return vehicle.Controls{Throttle: 1}
	case step < 160:
		// Évite la première caisse par la gauche
		return vehicle.Controls{Throttle: 0.8, Steering: -0.4}
	case step < 220:
		// Puis la seconde par la droite
		return vehicle.Controls{Throttle: 0.8, Steering: 0.4}
	case step < 280:
		return vehicle.Controls{Throttle: 0.6}
	case step < 330:
		return vehicle.Controls{Brake: 1}
	default:
		// Pédales relâchées : la voiture peut s'endormir
		return vehicle.Controls{}
	}
}

func main() {
	fmt.Println("🏎️  Démo : slalom entre deux caisses")
	fmt.Println("====================================")

	world, err := SetupScene()
	if err != nil {
		fmt.Printf("Erreur de mise en place : %v\n", err)
		return
	}

	world.Events.Subscribe(torque.COLLISION_ENTER, func(event torque.Event) {
		e := event.(torque.CollisionEnterEvent)
		fmt.Printf("💥 Collision entre %s et %s (pénétration %.3f)\n",
			e.BodyA, e.BodyB, e.Contact.Penetration)
	})
	world.Events.Subscribe(torque.TRIGGER_ENTER, func(event torque.Event) {
		e := event.(torque.TriggerEnterEvent)
		fmt.Printf("🚩 Checkpoint franchi : %s / %s\n", e.BodyA, e.BodyB)
	})
	world.Events.Subscribe(torque.ON_SLEEP, func(event torque.Event) {
		e := event.(torque.SleepEvent)
		fmt.Printf("😴 %s s'endort\n", e.BodyID)
	})

	pos, _ := world.GetPosition("car")
	fmt.Printf("Configuration initiale:\n")
	fmt.Printf("  Voiture: position %v\n", pos)
	fmt.Printf("  Gravité: %v\n", world.Config().Gravity)
	fmt.Println()

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 360

	for step := 0; step < maxSteps; step++ {
		world.SetControls("car", controlsForStep(step))
		world.Step(dt)

		if (step+1)%30 == 0 {
			pos, _ := world.GetPosition("car")
			v, _ := world.GetVelocity("car")
			fmt.Printf("--- t=%.1fs ---\n", float64(step+1)*dt)
			fmt.Printf("  Position: (%.2f, %.2f, %.2f)\n", pos.X(), pos.Y(), pos.Z())
			fmt.Printf("  Vitesse: %.1f km/h\n", v.Len()*3.6)
		}
	}

	pos, _ = world.GetPosition("car")
	v, _ := world.GetVelocity("car")
	fmt.Println()
	fmt.Printf("Arrivée: position (%.2f, %.2f, %.2f), vitesse %.1f km/h\n",
		pos.X(), pos.Y(), pos.Z(), v.Len()*3.6)
	fmt.Println("Démo terminée!")
}
