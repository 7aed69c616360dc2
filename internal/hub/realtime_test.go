package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/v1/changes", r.URL.Path)
		assert.Equal(t, "bookmarks:u-1", r.URL.Query().Get("channel"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		flusher.Flush()
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
}

func TestSubscribe_DeliversChanges(t *testing.T) {
	srv := sseServer(t, []string{
		": heartbeat\n\n",
		"event: inserted\ndata: {\"id\":\"b-1\",\"owner_id\":\"u-1\",\"url\":\"https://go.dev\",\"title\":\"Go\"}\n\n",
		"event: deleted\ndata: {\"id\":\"b-1\"}\n\n",
	})
	defer srv.Close()

	access := mintAccess(t, "u-1", time.Now().Add(time.Hour))
	client := New(Config{BaseURL: srv.URL}, envelopeStore(access, "refresh"))

	sub, err := client.Subscribe(context.Background(), ChannelForUser("u-1"))
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Events()
	assert.Equal(t, EventInserted, first.Kind)
	require.NotNil(t, first.Bookmark)
	assert.Equal(t, "b-1", first.Bookmark.ID)
	assert.Equal(t, "https://go.dev", first.Bookmark.URL)

	second := <-sub.Events()
	assert.Equal(t, EventDeleted, second.Kind)
	assert.Nil(t, second.Bookmark)
	assert.Equal(t, "b-1", second.ID)
}

func TestSubscribe_CloseEndsFeed(t *testing.T) {
	srv := sseServer(t, nil)
	defer srv.Close()

	access := mintAccess(t, "u-1", time.Now().Add(time.Hour))
	client := New(Config{BaseURL: srv.URL}, envelopeStore(access, "refresh"))

	sub, err := client.Subscribe(context.Background(), ChannelForUser("u-1"))
	require.NoError(t, err)

	sub.Close()
	sub.Close() // idempotent

	select {
	case _, open := <-sub.Events():
		assert.False(t, open, "events channel must close on teardown")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}

func TestSubscribe_UnauthorizedFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"missing bearer token"}`)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL}, &recordingStore{})

	sub, err := client.Subscribe(context.Background(), ChannelForUser("u-1"))

	assert.Nil(t, sub)
	assert.True(t, IsUnauthenticated(err))
}

func TestSubscribe_ReconnectsAfterDrop(t *testing.T) {
	var connects int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connects++
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		if connects == 1 {
			// First connection drops immediately after one event.
			fmt.Fprint(w, "event: deleted\ndata: {\"id\":\"b-1\"}\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprint(w, "event: deleted\ndata: {\"id\":\"b-2\"}\n\n")
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	access := mintAccess(t, "u-1", time.Now().Add(time.Hour))
	client := New(Config{BaseURL: srv.URL}, envelopeStore(access, "refresh"))

	sub, err := client.Subscribe(context.Background(), "bookmarks:u-1")
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Events()
	assert.Equal(t, "b-1", first.ID)

	select {
	case second := <-sub.Events():
		assert.Equal(t, "b-2", second.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no event after reconnect")
	}
	assert.GreaterOrEqual(t, connects, 2)
}

func TestSubscribe_RotatesExpiredAccessOnConnect(t *testing.T) {
	fresh := mintAccess(t, "u-1", time.Now().Add(time.Hour))

	var rotations int
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		rotations++
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"refresh-2","expires_in":3600}`, fresh)
	})
	mux.HandleFunc("/realtime/v1/changes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "event: deleted\ndata: {\"id\":\"b-1\"}\n\n")
		flusher.Flush()
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	stale := mintAccess(t, "u-1", time.Now().Add(-time.Hour))
	store := envelopeStore(stale, "refresh-1")
	client := New(Config{BaseURL: srv.URL}, store)

	sub, err := client.Subscribe(context.Background(), ChannelForUser("u-1"))
	require.NoError(t, err)
	defer sub.Close()

	event := <-sub.Events()
	assert.Equal(t, "b-1", event.ID)
	assert.Equal(t, 1, rotations)

	refresh, ok := storedValue(store, RefreshCookie)
	require.True(t, ok)
	assert.Equal(t, "refresh-2", refresh)
}

func TestSubscribe_RefreshRejectedFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"refresh token already used"}`)
	}))
	defer srv.Close()

	stale := mintAccess(t, "u-1", time.Now().Add(-time.Hour))
	client := New(Config{BaseURL: srv.URL}, envelopeStore(stale, "refresh-1"))

	sub, err := client.Subscribe(context.Background(), ChannelForUser("u-1"))

	assert.Nil(t, sub)
	assert.True(t, IsUnauthenticated(err))
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name  string
		event string
		data  string
		ok    bool
	}{
		{name: "unknown kind", event: "updated", data: `{"id":"b-1"}`, ok: false},
		{name: "malformed payload", event: "inserted", data: `{`, ok: false},
		{name: "missing id", event: "deleted", data: `{}`, ok: false},
		{name: "valid delete", event: "deleted", data: `{"id":"b-1"}`, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseEvent(tt.event, tt.data)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestChannelForUser(t *testing.T) {
	assert.Equal(t, "bookmarks:u-42", ChannelForUser("u-42"))
}
