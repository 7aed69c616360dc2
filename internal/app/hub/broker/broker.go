// Package broker fans bookmark change events out to the owner's open
// realtime subscriptions. Delivery is per-owner: subscribers never see
// another user's events no matter what channel name they asked for.
package broker

import (
	"log/slog"
	"sync"

	"markd/internal/domain/bookmark"
)

type EventKind string

const (
	EventInserted EventKind = "inserted"
	EventDeleted  EventKind = "deleted"
)

type Event struct {
	Kind     EventKind
	Bookmark *bookmark.Bookmark
	ID       string
}

const subscriberBuffer = 16

type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan Event
	next int
	log  *slog.Logger
}

func New(log *slog.Logger) *Broker {
	return &Broker{
		subs: make(map[string]map[int]chan Event),
		log:  log.With(slog.String("component", "broker")),
	}
}

// Subscribe opens an event channel for one owner. The returned cancel
// function closes the channel and must be called when the subscriber
// goes away.
func (b *Broker) Subscribe(ownerID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	ch := make(chan Event, subscriberBuffer)

	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[int]chan Event)
	}
	b.subs[ownerID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if owned, ok := b.subs[ownerID]; ok {
			if sub, ok := owned[id]; ok {
				delete(owned, id)
				close(sub)
			}
			if len(owned) == 0 {
				delete(b.subs, ownerID)
			}
		}
	}
	return ch, cancel
}

// BookmarkInserted implements bookmark.Notifier.
func (b *Broker) BookmarkInserted(ownerID string, bm bookmark.Bookmark) {
	b.publish(ownerID, Event{Kind: EventInserted, Bookmark: &bm, ID: bm.ID})
}

// BookmarkDeleted implements bookmark.Notifier.
func (b *Broker) BookmarkDeleted(ownerID, id string) {
	b.publish(ownerID, Event{Kind: EventDeleted, ID: id})
}

// publish delivers without blocking. A subscriber that stopped draining
// loses events rather than stalling everyone else; the client recovers
// on its next full load.
func (b *Broker) publish(ownerID string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[ownerID] {
		select {
		case ch <- ev:
		default:
			b.log.Warn("dropping event for slow subscriber",
				slog.String("owner_id", ownerID),
			)
		}
	}
}
