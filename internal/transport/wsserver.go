package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// actionFrame is the inbound WS frame shape shared by the protocols:
// an action call with an optional caller-supplied correlation token.
type actionFrame struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params"`
	Echo   json.RawMessage `json:"echo,omitempty"`
}

// Signaler is an optional codec extension for protocols with their own
// WS signaling layer (ping/identify opcodes). A frame the signaler
// handles never reaches the action dispatcher.
type Signaler interface {
	HandleSignal(frame []byte) (reply []byte, handled bool)
}

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 64
	maxFrameBytes = 4 << 20
)

// WSServer accepts WebSocket connections, broadcasts every dispatched
// event to all of them, and routes inbound action frames through the
// engine. One instance per protocol engine.
type WSServer struct {
	applier Applier
	token   string
	path    string
	logger  *zap.Logger

	mu     sync.Mutex
	conns  map[string]*wsConn
	closed bool
}

type wsConn struct {
	id   string
	sock *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewWSServer creates the server transport. path is the upgrade route
// ("/" for the OneBot family, "/events" for Satori/Milky style).
func NewWSServer(applier Applier, token, path string, logger *zap.Logger) *WSServer {
	if path == "" {
		path = "/"
	}
	return &WSServer{
		applier: applier,
		token:   token,
		path:    path,
		logger:  logger,
		conns:   map[string]*wsConn{},
	}
}

func (s *WSServer) Name() string { return "ws-server" }

func (s *WSServer) Start(context.Context) error { return nil }

// Routes returns the upgrade route for mounting under the engine prefix.
func (s *WSServer) Routes() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register adds the upgrade route to an existing router.
func (s *WSServer) Register(r chi.Router) {
	r.Get(s.path, s.handleUpgrade)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *WSServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if !authorize(r, s.token) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	sock.SetReadLimit(maxFrameBytes)

	conn := &wsConn{
		id:   uuid.New().String(),
		sock: sock,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sock.Close()
		return
	}
	s.conns[conn.id] = conn
	s.mu.Unlock()

	s.logger.Info("ws client connected", zap.String("conn", conn.id))

	for _, frame := range s.applier.Codec().HelloFrames() {
		conn.enqueue(frame)
	}

	go s.writeLoop(conn)
	go s.readLoop(conn)
}

func (s *WSServer) readLoop(conn *wsConn) {
	defer s.drop(conn)
	signaler, _ := s.applier.Codec().(Signaler)
	for {
		_, frame, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}
		if signaler != nil {
			if reply, handled := signaler.HandleSignal(frame); handled {
				if reply != nil {
					conn.enqueue(reply)
				}
				continue
			}
		}
		var af actionFrame
		if err := json.Unmarshal(frame, &af); err != nil || af.Action == "" {
			s.logger.Debug("malformed ws frame", zap.String("conn", conn.id))
			// The peer still gets the codec's failure envelope, never
			// silence; Apply maps the missing action name itself.
		}
		res := s.applier.Apply(context.Background(), af.Action, af.Params, af.Echo)
		conn.enqueue(res.Body)
	}
}

func (s *WSServer) writeLoop(conn *wsConn) {
	defer conn.sock.Close()
	for {
		select {
		case payload := <-conn.send:
			conn.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-conn.done:
			conn.sock.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (c *wsConn) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		// Slow consumer; the event is lost for this connection only.
	}
}

func (c *wsConn) close() {
	c.once.Do(func() { close(c.done) })
}

func (s *WSServer) drop(conn *wsConn) {
	s.mu.Lock()
	delete(s.conns, conn.id)
	s.mu.Unlock()
	conn.close()
	s.logger.Info("ws client disconnected", zap.String("conn", conn.id))
}

// Deliver broadcasts an encoded event to every live connection.
func (s *WSServer) Deliver(payload []byte) {
	s.mu.Lock()
	conns := make([]*wsConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.enqueue(payload)
	}
}

// ConnCount reports the number of live connections.
func (s *WSServer) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Stop closes every connection and refuses new ones.
func (s *WSServer) Stop() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*wsConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.conns = map[string]*wsConn{}
	s.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
}
