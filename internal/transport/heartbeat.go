package transport

import (
	"context"
	"sync"
	"time"

	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

// Heartbeat synthesizes a meta/heartbeat event on a fixed interval and
// feeds it through the engine's normal dispatch path, so it reaches every
// transport the same way platform events do.
type Heartbeat struct {
	platform string
	self     model.ID
	interval time.Duration
	dispatch func(*model.Event)
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHeartbeat creates the timer channel. dispatch is the owning engine's
// Dispatch method.
func NewHeartbeat(platform string, self model.ID, interval time.Duration, dispatch func(*model.Event), logger *zap.Logger) *Heartbeat {
	return &Heartbeat{
		platform: platform,
		self:     self,
		interval: interval,
		dispatch: dispatch,
		logger:   logger,
	}
}

func (h *Heartbeat) Name() string { return "heartbeat" }

func (h *Heartbeat) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.dispatch(model.Heartbeat(h.platform, h.self, h.interval))
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Deliver is a no-op: the heartbeat produces events, it does not carry
// them.
func (h *Heartbeat) Deliver([]byte) {}

func (h *Heartbeat) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	h.wg.Wait()
}
