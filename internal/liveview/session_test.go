package liveview

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

type fakeFeed struct {
	events chan hub.ChangeEvent
	once   sync.Once
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan hub.ChangeEvent)}
}

func (f *fakeFeed) Events() <-chan hub.ChangeEvent { return f.events }

func (f *fakeFeed) Close() {
	f.once.Do(func() { close(f.events) })
}

func awaitUpdate(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("no update notification")
	}
}

func TestSession_AppliesFeedEvents(t *testing.T) {
	feed := newFakeFeed()
	s := NewSession(NewView([]bookmark.Bookmark{bm("b-1", "one")}), feed)
	defer s.Close()

	inserted := bm("b-2", "two")
	feed.events <- hub.ChangeEvent{Kind: hub.EventInserted, Bookmark: &inserted, ID: "b-2"}
	awaitUpdate(t, s)
	assert.Equal(t, []string{"b-2", "b-1"}, ids(s.View().Bookmarks()))

	feed.events <- hub.ChangeEvent{Kind: hub.EventDeleted, ID: "b-1"}
	awaitUpdate(t, s)
	assert.Equal(t, []string{"b-2"}, ids(s.View().Bookmarks()))
}

func TestSession_SilentOnNoopEvents(t *testing.T) {
	feed := newFakeFeed()
	s := NewSession(NewView([]bookmark.Bookmark{bm("b-1", "one")}), feed)
	defer s.Close()

	// Echo of an id already present and a delete of an absent id must not
	// wake the screen.
	echo := bm("b-1", "echo")
	feed.events <- hub.ChangeEvent{Kind: hub.EventInserted, Bookmark: &echo, ID: "b-1"}
	feed.events <- hub.ChangeEvent{Kind: hub.EventDeleted, ID: "b-ghost"}

	select {
	case <-s.Updates():
		t.Fatal("no-op event produced a notification")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, s.View().Len())
}

func TestSession_CloseEndsUpdates(t *testing.T) {
	feed := newFakeFeed()
	s := NewSession(NewView(nil), feed)

	s.Close()
	s.Close() // idempotent

	select {
	case _, open := <-s.Updates():
		require.False(t, open, "updates must close with the feed")
	case <-time.After(2 * time.Second):
		t.Fatal("updates channel did not close")
	}
}
