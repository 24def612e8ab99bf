package spectator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	l, err := logger.New("SPECTATOR-TEST", "", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHub(l)
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return h, srv
}

func waitForViewers(t *testing.T, h *Hub, id uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Viewers(id) != want {
		if time.Now().After(deadline) {
			t.Fatalf("viewers: got %d, want %d", h.Viewers(id), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_StreamsPublishedPayloads(t *testing.T) {
	h, srv := newTestHub(t)
	matchID := uuid.New()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/" + matchID.String() + "/events"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForViewers(t, h, matchID, 1)

	h.Publish(uuid.New(), []byte("other match"))
	h.Publish(matchID, []byte("WALL 1 1 d;"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "WALL 1 1 d;" {
		t.Fatalf("got %q", msg)
	}

	h.Close(matchID)
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
	if h.Viewers(matchID) != 0 {
		t.Fatalf("viewers left after close: %d", h.Viewers(matchID))
	}
}

func TestHub_RejectsInvalidMatchID(t *testing.T) {
	_, srv := newTestHub(t)
	res, err := http.Get(srv.URL + "/matches/not-a-uuid/events")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", res.StatusCode)
	}
}

func TestHub_UnsubscribesOnDisconnect(t *testing.T) {
	h, srv := newTestHub(t)
	matchID := uuid.New()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/" + matchID.String() + "/events"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForViewers(t, h, matchID, 1)
	_ = conn.Close()
	waitForViewers(t, h, matchID, 0)
}
