package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	utils "github.com/jonhoo/hanabot/internal"
	"github.com/jonhoo/hanabot/session"
	"github.com/stretchr/testify/assert"
)

// memStore keeps the latest snapshot in memory
type memStore struct {
	mu    sync.Mutex
	saved *session.Session
	saves int
}

func (m *memStore) Load() (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

func (m *memStore) Save(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = s
	m.saves++
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	st := &memStore{}
	gs := NewServer(session.New(), st)
	ts := httptest.NewServer(gs.Handler)
	t.Cleanup(ts.Close)
	return ts, st
}

func connect(t *testing.T, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?name=" + name
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	utils.AssertNoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readText(t *testing.T, ws *websocket.Conn) string {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	utils.AssertNoError(t, err)
	return string(data)
}

func TestHandleWSRequiresName(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/ws")
	utils.AssertNoError(t, err)
	defer res.Body.Close()
	utils.AssertEqual(t, res.StatusCode, http.StatusBadRequest)
}

func TestChatFlow(t *testing.T) {
	ts, st := newTestServer(t)

	alice := connect(t, ts, "alice")
	bob := connect(t, ts, "bob")

	err := alice.WriteMessage(websocket.TextMessage, []byte("join"))
	utils.AssertNoError(t, err)
	assert.Contains(t, readText(t, alice), "Welcome!")

	err = bob.WriteMessage(websocket.TextMessage, []byte("join"))
	utils.AssertNoError(t, err)

	// bob's welcome and the start offer arrive as one batch; alice gets
	// the offer too
	msg := readText(t, bob)
	assert.Contains(t, msg, "Welcome!")
	assert.Contains(t, msg, "we *could* start a game")
	assert.Contains(t, readText(t, alice), "we *could* start a game")

	err = alice.WriteMessage(websocket.TextMessage, []byte("start"))
	utils.AssertNoError(t, err)
	assert.Contains(t, readText(t, alice), "You are now in a game with 1 other players")
	assert.Contains(t, readText(t, bob), "It's @alice's turn")

	// every handled command snapshots the session
	st.mu.Lock()
	defer st.mu.Unlock()
	utils.AssertEqual(t, st.saves, 3)
	utils.AssertEqual(t, len(st.saved.Games), 1)
}

func TestReconnectReplacesConnection(t *testing.T) {
	ts, _ := newTestServer(t)

	first := connect(t, ts, "alice")
	err := first.WriteMessage(websocket.TextMessage, []byte("join"))
	utils.AssertNoError(t, err)
	assert.Contains(t, readText(t, first), "Welcome!")

	second := connect(t, ts, "alice")
	err = second.WriteMessage(websocket.TextMessage, []byte("players"))
	utils.AssertNoError(t, err)
	assert.Contains(t, readText(t, second), "There are currently")

	// the replaced connection was shut down by the server
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = first.ReadMessage()
	utils.AssertErrored(t, err)
}

func TestParseErrorsGoBackToTheSender(t *testing.T) {
	ts, st := newTestServer(t)

	alice := connect(t, ts, "alice")
	err := alice.WriteMessage(websocket.TextMessage, []byte("frobnicate"))
	utils.AssertNoError(t, err)

	assert.Contains(t, readText(t, alice), `What do you mean "frobnicate"?!`)

	// a line that doesn't parse never touches the session
	st.mu.Lock()
	defer st.mu.Unlock()
	utils.AssertEqual(t, st.saves, 0)
}
