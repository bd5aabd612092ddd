package movement

import (
	"log"

	"github.com/jakecoffman/cp"
)

type EventKind uint8

const (
	EventGroundedChanged EventKind = iota + 1
	EventHeadBumped
	EventJumpStarted
	EventFirstJumpStarted
	EventDoubleJumpStarted
	EventLanded
	EventFellFromHeight
	EventWallSlideChanged
	EventWallJumpStarted
	EventDashStarted
)

var eventNames = map[EventKind]string{
	EventGroundedChanged:   "grounded-changed",
	EventHeadBumped:        "head-bumped",
	EventJumpStarted:       "jump-started",
	EventFirstJumpStarted:  "first-jump-started",
	EventDoubleJumpStarted: "double-jump-started",
	EventLanded:            "landed",
	EventFellFromHeight:    "fell-from-height",
	EventWallSlideChanged:  "wall-slide-changed",
	EventWallJumpStarted:   "wall-jump-started",
	EventDashStarted:       "dash-started",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a discrete movement notification. Value carries the flag of the
// boolean kinds (grounded, head bump, wall slide).
type Event struct {
	Kind         EventKind
	Value        bool
	Position     cp.Vector
	FallDistance float64
}

type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) {
	if f != nil {
		f(e)
	}
}

type subscription struct {
	id       int
	observer Observer
}

// Bus dispatches events synchronously to its subscribers in subscription
// order. A panicking subscriber is logged and skipped.
type Bus struct {
	subs   []subscription
	nextID int
}

// Subscribe registers o and returns a function that removes it.
func (b *Bus) Subscribe(o Observer) func() {
	if b == nil || o == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, observer: o})
	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.subs)
}

func (b *Bus) Emit(e Event) {
	if b == nil || len(b.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), b.subs...)
	for _, s := range subs {
		deliver(s.observer, e)
	}
}

func deliver(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("movement: observer panic on %s: %v", e.Kind, r)
		}
	}()
	o.OnEvent(e)
}

// EventQueue is a FIFO observer for consumers that drain once per frame.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) OnEvent(e Event) {
	q.Push(e)
}

// Push adds an event.
func (q *EventQueue) Push(e Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, e)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
