package server

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/jonhoo/hanabot/logger"
	"github.com/jonhoo/hanabot/protocol"
	"github.com/jonhoo/hanabot/session"
	"github.com/jonhoo/hanabot/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameServer is the chat gateway: one websocket per user, chat lines in,
// batched player messages out. It owns the lock that serializes all
// access to the session (and therefore to every game).
type GameServer struct {
	http.Server

	mu      sync.Mutex
	session *session.Session
	store   store.SessionStore

	connsMu sync.Mutex
	conns   map[string]*userConn
}

// NewServer creates a GameServer around an existing session
func NewServer(sess *session.Session, st store.SessionStore) *GameServer {
	s := &GameServer{
		session: sess,
		store:   st,
		conns:   map[string]*userConn{},
	}

	router := http.NewServeMux()
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))

	s.Handler = handlers.LoggingHandler(os.Stdout, router)

	return s
}

// HandleWS upgrades a user's connection and pumps their chat lines into
// the session until they disconnect
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing player name"))
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Errorw("websocket upgrade failed", "user", name, "error", err)
		return
	}

	c := newUserConn(name, ws)
	g.register(c)
	go c.writePump()
	c.readPump(g.dispatch)
	g.unregister(c)
}

// dispatch runs one chat line through parse and session under the lock,
// then flushes the buffered replies. Delivery happens strictly after the
// mutation (and its save) has completed.
func (g *GameServer) dispatch(user, text string) {
	proxy := session.NewMessageProxy()

	g.mu.Lock()
	action, err := protocol.Parse(text)
	if err != nil {
		proxy.Send(user, err.Error())
	} else {
		g.session.Handle(user, action, proxy)
		if err := g.store.Save(g.session); err != nil {
			logger.Log.Errorw("could not save session state", "error", err)
		}
	}
	g.mu.Unlock()

	proxy.Flush(g.deliver)
}

// deliver sends one user's batch as a single message, best-effort: if
// the user isn't connected (or their connection is backed up), the batch
// is dropped -- game state is already settled by this point.
func (g *GameServer) deliver(user string, lines []string) {
	g.connsMu.Lock()
	c := g.conns[user]
	g.connsMu.Unlock()

	if c == nil {
		return
	}
	c.enqueue([]byte(strings.Join(lines, "\n")))
}

func (g *GameServer) register(c *userConn) {
	g.connsMu.Lock()
	defer g.connsMu.Unlock()
	if old, ok := g.conns[c.name]; ok {
		old.close()
	}
	g.conns[c.name] = c
	logger.Log.Infow("user connected", "user", c.name)
}

func (g *GameServer) unregister(c *userConn) {
	g.connsMu.Lock()
	defer g.connsMu.Unlock()
	if g.conns[c.name] == c {
		delete(g.conns, c.name)
	}
	logger.Log.Infow("user disconnected", "user", c.name)
}
