package torque

import (
	"github.com/akmonengine/torque/actor"
	"github.com/akmonengine/torque/constraint"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
)

// pairKey identifies a body pair by ids, lexically ordered. Ids survive
// body removal, so stale keys never dangle.
type pairKey struct {
	bodyA string
	bodyB string
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.Body) pairKey {
	if bodyB.ID < bodyA.ID {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA.ID, bodyB: bodyB.ID}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	BodyA string
	BodyB string
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA string
	BodyB string
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA string
	BodyB string
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events carry the last contact point of the pair, so listeners
// can scale sounds or particles from the impact data.
type CollisionEnterEvent struct {
	BodyA   string
	BodyB   string
	Contact constraint.ContactPoint
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA   string
	BodyB   string
	Contact constraint.ContactPoint
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA string
	BodyB string
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Sleep/Wake events
type SleepEvent struct {
	BodyID string
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	BodyID string
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]constraint.ContactPoint

	// Trigger pairs are tracked separately from the contact data
	triggerPairs map[pairKey]bool

	sleepStates map[string]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]constraint.ContactPoint),
		triggerPairs:        make(map[pairKey]bool),
		sleepStates:         make(map[string]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks every contact pair as active for this step and
// strips trigger pairs from the list handed to the solver: triggers report,
// they never push back.
func (e *Events) recordCollisions(contacts []*constraint.Contact) []*constraint.Contact {
	n := 0
	for _, c := range contacts {
		pair := makePairKey(c.BodyA, c.BodyB)
		e.currentActivePairs[pair] = c.Point

		if c.BodyA.IsTrigger || c.BodyB.IsTrigger {
			e.triggerPairs[pair] = true
			continue
		}

		contacts[n] = c
		n++
	}

	return contacts[:n]
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called after all substeps
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for pair, contact := range e.currentActivePairs {
		// Skip if both bodies are sleeping, to avoid spamming events
		if e.sleepStates[pair.bodyA] && e.sleepStates[pair.bodyB] {
			continue
		}

		isTrigger := e.triggerPairs[pair]

		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			if isTrigger {
				e.buffer = append(e.buffer, TriggerStayEvent{
					BodyA: pair.bodyA,
					BodyB: pair.bodyB,
				})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{
					BodyA:   pair.bodyA,
					BodyB:   pair.bodyB,
					Contact: contact,
				})
			}
		} else {
			// New pair, Enter
			if isTrigger {
				e.buffer = append(e.buffer, TriggerEnterEvent{
					BodyA: pair.bodyA,
					BodyB: pair.bodyB,
				})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{
					BodyA:   pair.bodyA,
					BodyB:   pair.bodyB,
					Contact: contact,
				})
			}
		}
	}

	// Detect Exit events
	for pair := range e.previousActivePairs {
		if _, active := e.currentActivePairs[pair]; !active {
			// Pair was active but is no longer, Exit
			if e.triggerPairs[pair] {
				e.buffer = append(e.buffer, TriggerExitEvent{
					BodyA: pair.bodyA,
					BodyB: pair.bodyB,
				})
				delete(e.triggerPairs, pair)
			} else {
				e.buffer = append(e.buffer, CollisionExitEvent{
					BodyA: pair.bodyA,
					BodyB: pair.bodyB,
				})
			}
		}
	}

	// Swap for next frame and clear current
	clear(e.previousActivePairs)
	for pair := range e.currentActivePairs {
		e.previousActivePairs[pair] = true
	}
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.Body) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body.ID]
		if !exists {
			e.sleepStates[body.ID] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{BodyID: body.ID})
			e.sleepStates[body.ID] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{BodyID: body.ID})
			e.sleepStates[body.ID] = false
		}
	}
}

// observeBody seeds the sleep tracking of a newly registered body, so its
// first real transition emits an event instead of passing as the initial
// observation.
func (e *Events) observeBody(body *actor.Body) {
	e.sleepStates[body.ID] = body.IsSleeping
}

// forgetBody drops every piece of tracked state referencing the id. Pairs
// involving a removed body disappear without emitting Exit events.
func (e *Events) forgetBody(id string) {
	delete(e.sleepStates, id)

	for pair := range e.previousActivePairs {
		if pair.bodyA == id || pair.bodyB == id {
			delete(e.previousActivePairs, pair)
			delete(e.triggerPairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.bodyA == id || pair.bodyB == id {
			delete(e.currentActivePairs, pair)
			delete(e.triggerPairs, pair)
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
