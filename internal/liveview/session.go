package liveview

import (
	"sync"

	"markd/internal/hub"
)

// Feed is the change stream a session reconciles against. Satisfied by
// *hub.Subscription.
type Feed interface {
	Events() <-chan hub.ChangeEvent
	Close()
}

// Session binds a view to a change feed for the lifetime of one screen.
// It applies feed events to the view and coalesces change notifications
// onto Updates. The session must be closed when the screen goes away;
// the feed is released with it.
type Session struct {
	view    *View
	feed    Feed
	updates chan struct{}
	once    sync.Once
}

// NewSession starts reconciling the feed into the view.
func NewSession(view *View, feed Feed) *Session {
	s := &Session{
		view:    view,
		feed:    feed,
		updates: make(chan struct{}, 1),
	}
	go s.run()
	return s
}

func (s *Session) View() *View { return s.view }

// Updates signals that the view changed since the last read. Closed when
// the feed ends. Notifications are coalesced; a single receive may cover
// several events.
func (s *Session) Updates() <-chan struct{} { return s.updates }

// Close releases the feed. Idempotent.
func (s *Session) Close() {
	s.once.Do(s.feed.Close)
}

func (s *Session) run() {
	defer close(s.updates)
	for ev := range s.feed.Events() {
		var changed bool
		switch ev.Kind {
		case hub.EventInserted:
			if ev.Bookmark != nil {
				changed = s.view.Insert(*ev.Bookmark)
			}
		case hub.EventDeleted:
			changed = s.view.Remove(ev.ID)
		}
		if changed {
			select {
			case s.updates <- struct{}{}:
			default:
			}
		}
	}
}
