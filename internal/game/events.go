package game

import (
	"sync"
	"time"

	"github.com/cardroomlabs/holdem/internal/deck"
)

// EventType identifies a game domain event.
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypePlayerAction EventType = "player_action"
	EventTypeStreetChange EventType = "street_change"
	EventTypeHandEnd      EventType = "hand_end"
)

// Event is any occurrence inside the engine that collaborators (chat
// surfaces, loggers, ledgers) may want to observe. The core never calls
// into collaborator code directly; it only publishes.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published when a new hand is dealt.
type HandStartEvent struct {
	HandID     string
	Button     int
	SmallBlind int
	BigBlind   int
	PlayerIDs  []string
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action has been validated and
// applied. TimedOut marks the engine's default action on turn expiry.
type PlayerActionEvent struct {
	HandID    string
	PlayerID  string
	Action    Action
	Street    Street
	Pot       int
	TimedOut  bool
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when the hand advances to a new street.
type StreetChangeEvent struct {
	HandID    string
	Street    Street
	Community []deck.Card
	Pot       int
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published when a hand completes or is cancelled.
type HandEndEvent struct {
	HandID    string
	Result    *HandResult
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives published events.
type Subscriber interface {
	OnEvent(event Event)
}

// EventBus fans events out to subscribers.
type EventBus interface {
	Subscribe(s Subscriber)
	Unsubscribe(s Subscriber)
	Publish(event Event)
}

// SimpleEventBus is a synchronous in-memory bus. Publish runs each
// subscriber inline; subscribers must not call back into the engine.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewEventBus creates an empty bus.
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

func (b *SimpleEventBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

func (b *SimpleEventBus) Unsubscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == s {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

func (b *SimpleEventBus) Publish(event Event) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
