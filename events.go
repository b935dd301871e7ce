package cuboid

import (
	"unsafe"

	"github.com/akmonengine/cuboid/geom"
)

const (
	OVERLAP_ENTER EventType = iota
	OVERLAP_STAY
	OVERLAP_EXIT
)

type pairKey struct {
	a *geom.Cuboid
	b *geom.Cuboid
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(a, b *geom.Cuboid) pairKey {
	ptrA := uintptr(unsafe.Pointer(a))
	ptrB := uintptr(unsafe.Pointer(b))

	if ptrB < ptrA {
		a, b = b, a
	}

	return pairKey{a: a, b: b}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// OverlapEnterEvent is sent when two cuboids start sharing a volume
type OverlapEnterEvent struct {
	A *geom.Cuboid
	B *geom.Cuboid
}

func (e OverlapEnterEvent) Type() EventType { return OVERLAP_ENTER }

// OverlapStayEvent is sent on each detection while two cuboids keep overlapping
type OverlapStayEvent struct {
	A *geom.Cuboid
	B *geom.Cuboid
}

func (e OverlapStayEvent) Type() EventType { return OVERLAP_STAY }

// OverlapExitEvent is sent when two cuboids stop sharing a volume
type OverlapExitEvent struct {
	A *geom.Cuboid
	B *geom.Cuboid
}

func (e OverlapExitEvent) Type() EventType { return OVERLAP_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks overlapping pairs between two detections and dispatches
// Enter/Stay/Exit events to listeners
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordPairs marks the pairs as overlapping for the current detection
func (e *Events) recordPairs(pairs []Pair) {
	for _, p := range pairs {
		e.currentActivePairs[makePairKey(p.A, p.B)] = true
	}
}

// forget drops every tracked pair involving c, no Exit event is sent for them
func (e *Events) forget(c *geom.Cuboid) {
	for pair := range e.previousActivePairs {
		if pair.a == c || pair.b == c {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.a == c || pair.b == c {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processOverlapEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processOverlapEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, OverlapStayEvent{A: pair.a, B: pair.b})
		} else {
			e.buffer = append(e.buffer, OverlapEnterEvent{A: pair.a, B: pair.b})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, OverlapExitEvent{A: pair.a, B: pair.b})
		}
	}

	// Swap for next detection and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processOverlapEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
