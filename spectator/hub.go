// Package spectator streams the legacy event lines of running matches to
// websocket viewers.
package spectator

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
)

const (
	URIMatchEvents = "/matches/:id/events"

	viewerBuffer = 64
	writeTimeout = 5 * time.Second
)

type viewer struct {
	out chan []byte
}

// Hub fans match payloads out to every connected viewer of that match.
type Hub struct {
	logger   general_i.Logger
	upgrader websocket.Upgrader
	router   *way.Router

	mu      sync.RWMutex
	viewers map[uuid.UUID]map[*viewer]struct{}
}

// NewHub returns a hub with its routes registered.
func NewHub(logger general_i.Logger) *Hub {
	h := &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		viewers: make(map[uuid.UUID]map[*viewer]struct{}),
	}
	h.router = way.NewRouter()
	h.router.HandleFunc("GET", URIMatchEvents, h.handleEvents())
	return h
}

// Handler returns the HTTP handler serving the spectator routes.
func (h *Hub) Handler() http.Handler { return h.router }

// Publish sends payload to the viewers of a match. Slow viewers lose frames
// instead of stalling the match.
func (h *Hub) Publish(matchID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for v := range h.viewers[matchID] {
		select {
		case v.out <- payload:
		default:
		}
	}
}

// Close disconnects every viewer of a finished match.
func (h *Hub) Close(matchID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers[matchID] {
		close(v.out)
	}
	delete(h.viewers, matchID)
}

// Viewers returns the number of connected viewers of a match.
func (h *Hub) Viewers(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[matchID])
}

func (h *Hub) subscribe(matchID uuid.UUID) *viewer {
	v := &viewer{out: make(chan []byte, viewerBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[matchID] == nil {
		h.viewers[matchID] = make(map[*viewer]struct{})
	}
	h.viewers[matchID][v] = struct{}{}
	return v
}

func (h *Hub) unsubscribe(matchID uuid.UUID, v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.viewers[matchID]
	if !ok {
		return
	}
	if _, ok := set[v]; !ok {
		return
	}
	delete(set, v)
	close(v.out)
	if len(set) == 0 {
		delete(h.viewers, matchID)
	}
}

func (h *Hub) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := uuid.Parse(way.Param(r.Context(), "id"))
		if err != nil {
			http.Error(w, "invalid match id", http.StatusBadRequest)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warning(fmt.Sprintf("upgrading spectator connection: %v", err))
			return
		}
		defer conn.Close()

		v := h.subscribe(matchID)
		defer h.unsubscribe(matchID, v)
		h.logger.Info(fmt.Sprintf("spectator joined match %s", matchID))

		// Viewers never send anything; reading only detects the close.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				return
			case payload, ok := <-v.out:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match ended"),
						time.Now().Add(writeTimeout))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}
	}
}
