package hub

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"markd/internal/domain/bookmark"
)

type EventKind string

const (
	EventInserted EventKind = "inserted"
	EventDeleted  EventKind = "deleted"
)

// ChangeEvent is one entry of the filtered change-notification feed.
// Inserted events carry the whole row; deleted events carry only the id.
type ChangeEvent struct {
	Kind     EventKind
	Bookmark *bookmark.Bookmark
	ID       string
}

// ChannelForUser names the notification channel scoped to one user.
// Scoping the channel by user id keeps cross-user events out even if the
// hub-side filter were misconfigured.
func ChannelForUser(userID string) string {
	return "bookmarks:" + userID
}

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Subscription is a live change feed. Events() closes once the
// subscription is torn down. Missed events are not replayed after a
// reconnect; the state may briefly diverge until the next full load.
type Subscription struct {
	events chan ChangeEvent
	cancel context.CancelFunc
	once   sync.Once
}

func (s *Subscription) Events() <-chan ChangeEvent { return s.events }

// Close releases the channel. Safe to call more than once. Subscriptions
// must not outlive the view they feed.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Subscribe opens the change feed for a channel. The initial connection
// is made synchronously so an unauthorized or unreachable hub fails
// fast; after that the subscription reconnects on its own with backoff
// until Close is called.
func (c *Client) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	resp, err := c.openStream(ctx, channel)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		events: make(chan ChangeEvent, 16),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		defer cancel()

		sub.consume(ctx, resp)

		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			resp, err := c.openStream(ctx, channel)
			if err != nil {
				if delay *= 2; delay > reconnectMaxDelay {
					delay = reconnectMaxDelay
				}
				continue
			}
			delay = reconnectBaseDelay
			sub.consume(ctx, resp)
		}
	}()

	return sub, nil
}

func (c *Client) openStream(ctx context.Context, channel string) (*http.Response, error) {
	access, refresh := c.envelope()

	// A subscription can outlive the access token. Rotate before
	// connecting so reconnects after the token's expiry keep working.
	if refresh != "" && accessExpired(access) {
		tok, err := c.refreshGrant(ctx, refresh)
		if err != nil {
			if KindOf(err) != KindNetwork {
				return nil, newError(KindUnauthenticated, "session refresh rejected")
			}
			// Unreachable hub; the connect below fails the same way and
			// the caller's backoff takes over.
		} else {
			c.writeEnvelope(tok)
			access = tok.AccessToken
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/realtime/v1/changes?channel="+channel, nil)
	if err != nil {
		return nil, newError(KindProtocol, err.Error())
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	// The stream outlives any sane request timeout; rely on ctx instead.
	resp, err := c.streamClient().Do(req)
	if err != nil {
		return nil, newError(KindNetwork, err.Error())
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		defer resp.Body.Close()
		return nil, newError(KindUnauthenticated, readErrorMessage(resp))
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, newError(KindBackend, readErrorMessage(resp))
	}
	return resp, nil
}

func (c *Client) streamClient() *http.Client {
	if c.cfg.HTTPClient != nil {
		return c.cfg.HTTPClient
	}
	return &http.Client{}
}

// consume reads server-sent events off one connection until it drops.
func (s *Subscription) consume(ctx context.Context, resp *http.Response) {
	defer resp.Body.Close()

	var eventName, data string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if ev, ok := parseEvent(eventName, data); ok {
				select {
				case s.events <- ev:
				case <-ctx.Done():
					return
				}
			}
			eventName, data = "", ""
		case strings.HasPrefix(line, ":"):
			// heartbeat comment
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func parseEvent(name, data string) (ChangeEvent, bool) {
	switch EventKind(name) {
	case EventInserted:
		var b bookmark.Bookmark
		if json.Unmarshal([]byte(data), &b) != nil || b.ID == "" {
			return ChangeEvent{}, false
		}
		return ChangeEvent{Kind: EventInserted, Bookmark: &b, ID: b.ID}, true
	case EventDeleted:
		var row struct {
			ID string `json:"id"`
		}
		if json.Unmarshal([]byte(data), &row) != nil || row.ID == "" {
			return ChangeEvent{}, false
		}
		return ChangeEvent{Kind: EventDeleted, ID: row.ID}, true
	default:
		return ChangeEvent{}, false
	}
}
