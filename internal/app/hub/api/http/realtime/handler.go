// Package realtime streams bookmark changes over server-sent events.
// One connection serves one channel, and the channel must belong to the
// caller's token; subscriptions live until the client hangs up.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"markd/internal/app/hub/api/http/middleware/apikey"
	"markd/internal/app/hub/broker"
	"markd/internal/app/hub/token"
)

const heartbeatInterval = 15 * time.Second

const channelPrefix = "bookmarks:"

type Handler struct {
	broker *broker.Broker
	minter *token.Minter
	guard  *apikey.Guard
	log    *slog.Logger
}

func NewHandler(b *broker.Broker, minter *token.Minter, guard *apikey.Guard, log *slog.Logger) *Handler {
	return &Handler{
		broker: b,
		minter: minter,
		guard:  guard,
		log:    log.With(slog.String("component", "realtime_handler")),
	}
}

// Changes serves GET /realtime/v1/changes?channel=bookmarks:<user_id>.
func (h *Handler) Changes(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Check(r) {
		writeJSONError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	header := r.Header.Get("Authorization")
	if len(header) < 7 || header[:7] != "Bearer " {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	claims, err := h.minter.Verify(header[7:])
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	channel := r.URL.Query().Get("channel")
	if !strings.HasPrefix(channel, channelPrefix) || channel[len(channelPrefix):] != claims.Subject {
		writeJSONError(w, http.StatusForbidden, "channel does not belong to token subject")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	events, cancel := h.broker.Subscribe(claims.Subject)
	defer cancel()

	h.log.Debug("subscription opened", slog.String("channel", channel))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev := <-events:
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev broker.Event) error {
	var payload any
	switch ev.Kind {
	case broker.EventInserted:
		payload = ev.Bookmark
	case broker.EventDeleted:
		payload = map[string]string{"id": ev.ID}
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
	return err
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
