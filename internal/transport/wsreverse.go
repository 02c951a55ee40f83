package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultReconnectInterval is the backoff between reverse-WS reconnect
// attempts when the config does not override it.
const DefaultReconnectInterval = 5 * time.Second

// WSReverse maintains an outbound WebSocket connection to a configured
// URL. While connected it behaves symmetrically to the WS server: inbound
// action frames are applied, dispatched events are sent out. On any
// disconnect it retries after a fixed backoff until Stop.
type WSReverse struct {
	applier   Applier
	url       string
	token     string
	reconnect time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	sock   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWSReverse creates the reverse client. interval <= 0 selects the
// default 5s backoff.
func NewWSReverse(applier Applier, url, token string, interval time.Duration, logger *zap.Logger) *WSReverse {
	if interval <= 0 {
		interval = DefaultReconnectInterval
	}
	return &WSReverse{
		applier:   applier,
		url:       url,
		token:     token,
		reconnect: interval,
		logger:    logger.With(zap.String("url", url)),
		send:      make(chan []byte, sendQueueSize),
	}
}

func (c *WSReverse) Name() string { return "ws-reverse" }

// Start launches the connect loop. The first dial happens immediately;
// each failure or disconnect schedules the next attempt after the backoff.
func (c *WSReverse) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx)
	return nil
}

func (c *WSReverse) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		if err := c.connectOnce(ctx); err != nil {
			c.logger.Warn("ws-reverse connect failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnect):
		}
	}
}

func (c *WSReverse) connectOnce(ctx context.Context) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	c.applier.Codec().WebhookHeaders(header)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	sock, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, header)
	cancel()
	if err != nil {
		return err
	}
	sock.SetReadLimit(maxFrameBytes)

	c.mu.Lock()
	c.sock = sock
	c.mu.Unlock()
	c.logger.Info("ws-reverse connected")

	for _, frame := range c.applier.Codec().HelloFrames() {
		sock.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sock.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.detach()
			return err
		}
	}

	done := make(chan struct{})
	go c.writeLoop(ctx, sock, done)

	signaler, _ := c.applier.Codec().(Signaler)
	for {
		_, frame, err := sock.ReadMessage()
		if err != nil {
			close(done)
			c.detach()
			c.logger.Info("ws-reverse disconnected", zap.Error(err))
			return nil
		}
		if signaler != nil {
			if reply, handled := signaler.HandleSignal(frame); handled {
				if reply != nil {
					c.enqueue(reply)
				}
				continue
			}
		}
		var af actionFrame
		if err := json.Unmarshal(frame, &af); err != nil || af.Action == "" {
			c.logger.Debug("malformed ws-reverse frame")
		}
		res := c.applier.Apply(ctx, af.Action, af.Params, af.Echo)
		c.enqueue(res.Body)
	}
}

func (c *WSReverse) writeLoop(ctx context.Context, sock *websocket.Conn, done chan struct{}) {
	for {
		select {
		case payload := <-c.send:
			sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			sock.Close()
			return
		}
	}
}

func (c *WSReverse) detach() {
	c.mu.Lock()
	if c.sock != nil {
		c.sock.Close()
		c.sock = nil
	}
	c.mu.Unlock()
}

func (c *WSReverse) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// Deliver queues an encoded event for the peer. Dropped when disconnected
// or when the peer cannot keep up.
func (c *WSReverse) Deliver(payload []byte) {
	c.enqueue(payload)
}

// Stop cancels the reconnect loop, clears any pending backoff timer and
// closes the live socket. No reconnect attempt survives Stop.
func (c *WSReverse) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.detach()
	c.wg.Wait()
}
