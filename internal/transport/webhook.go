package transport

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nidhogg/crossgate/internal/engine"
	"go.uber.org/zap"
)

// DefaultWebhookTimeout bounds a single push request.
const DefaultWebhookTimeout = 10 * time.Second

// Webhook pushes every dispatched event to a configured URL as one HTTP
// POST. Delivery is best-effort and fire-and-forget: a failed or non-2xx
// push is logged and dropped, never retried, and never applies
// backpressure to the event source.
type Webhook struct {
	codec  engine.Codec
	url    string
	secret string
	client *http.Client
	logger *zap.Logger

	queue  chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewWebhook creates the sink. timeout <= 0 selects the default.
func NewWebhook(codec engine.Codec, url, secret string, timeout time.Duration, logger *zap.Logger) *Webhook {
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	return &Webhook{
		codec:  codec,
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("url", url)),
		queue:  make(chan []byte, sendQueueSize),
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case payload := <-w.queue:
				w.push(ctx, payload)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Deliver queues one payload. A full queue drops the event for this sink.
func (w *Webhook) Deliver(payload []byte) {
	select {
	case w.queue <- payload:
	default:
		w.logger.Warn("webhook queue full, event dropped")
	}
}

func (w *Webhook) push(ctx context.Context, payload []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		w.logger.Warn("webhook request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "crossgate")
	req.Header.Set("X-Request-Id", uuid.New().String())
	w.codec.WebhookHeaders(req.Header)
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(payload)
		req.Header.Set("X-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.logger.Warn("webhook rejected", zap.Int("status", resp.StatusCode))
	}
}

func (w *Webhook) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
