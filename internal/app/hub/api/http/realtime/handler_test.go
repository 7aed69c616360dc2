package realtime

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markd/internal/app/hub/api/http/middleware/apikey"
	"markd/internal/app/hub/broker"
	"markd/internal/app/hub/token"
	"markd/internal/domain/bookmark"
	"markd/internal/domain/user"
	"markd/internal/utils/logger"
)

type fixture struct {
	broker *broker.Broker
	minter *token.Minter
	srv    *httptest.Server
	access string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.EnvLocal)
	b := broker.New(log)
	minter := token.NewMinter("test-secret")
	h := NewHandler(b, minter, apikey.New("", log), log)

	access, err := minter.Mint(user.User{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(h.Changes))
	t.Cleanup(srv.Close)
	return &fixture{broker: b, minter: minter, srv: srv, access: access}
}

func (f *fixture) connect(t *testing.T, channel, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"?channel="+channel, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestChanges_StreamsEvents(t *testing.T) {
	f := newFixture(t)

	resp := f.connect(t, "bookmarks:u-1", f.access)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	// The handler announces the connection before any event.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, ":"))

	// Give the handler a moment to register its subscription.
	time.Sleep(50 * time.Millisecond)
	f.broker.BookmarkInserted("u-1", bookmark.Bookmark{ID: "b-1", OwnerID: "u-1", URL: "https://go.dev", Title: "Go"})

	var eventLine, dataLine string
	for eventLine == "" || dataLine == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event:") {
			eventLine = strings.TrimSpace(line)
		}
		if strings.HasPrefix(line, "data:") {
			dataLine = strings.TrimSpace(line)
		}
	}

	assert.Equal(t, "event: inserted", eventLine)
	assert.Contains(t, dataLine, `"id":"b-1"`)
	assert.Contains(t, dataLine, `"url":"https://go.dev"`)
}

func TestChanges_DeleteEventCarriesIDOnly(t *testing.T) {
	f := newFixture(t)

	resp := f.connect(t, "bookmarks:u-1", f.access)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	reader.ReadString('\n') // connected comment

	time.Sleep(50 * time.Millisecond)
	f.broker.BookmarkDeleted("u-1", "b-9")

	var dataLine string
	for dataLine == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			dataLine = strings.TrimSpace(line)
		}
	}
	assert.Equal(t, `data: {"id":"b-9"}`, dataLine)
}

func TestChanges_RejectsForeignChannel(t *testing.T) {
	f := newFixture(t)

	resp := f.connect(t, "bookmarks:u-other", f.access)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestChanges_RejectsMissingToken(t *testing.T) {
	f := newFixture(t)

	resp := f.connect(t, "bookmarks:u-1", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChanges_RejectsBadAPIKey(t *testing.T) {
	log := logger.New(logger.EnvLocal)
	minter := token.NewMinter("test-secret")
	h := NewHandler(broker.New(log), minter, apikey.New("anon-key", log), log)

	srv := httptest.NewServer(http.HandlerFunc(h.Changes))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?channel=bookmarks:u-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
