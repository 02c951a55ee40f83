package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/nidhogg/crossgate/internal/filter"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrStarted is returned by Start when the engine already ran.
	ErrStarted = errors.New("engine already started")
	// ErrStopped is returned by Start after Stop.
	ErrStopped = errors.New("engine stopped")
)

const (
	stateCreated int32 = iota
	stateStarted
	stateStopped
)

// Transport is one delivery/ingestion channel owned by an engine. Deliver
// must not block: a stalled channel drops events rather than delaying its
// peers.
type Transport interface {
	Name() string
	Start(ctx context.Context) error
	Deliver(payload []byte)
	Stop()
}

// Engine is one protocol instance bound to one account: it filters
// canonical events, encodes them through its codec and hands them to every
// active transport, and routes inbound wire actions to the codec.
type Engine struct {
	codec      Codec
	filter     *filter.Filter
	history    *History
	transports []Transport
	seq        atomic.Int64
	state      atomic.Int32
	logger     *zap.Logger
}

// New creates an engine in the Created state.
func New(codec Codec, f *filter.Filter, history *History, logger *zap.Logger) *Engine {
	return &Engine{
		codec:   codec,
		filter:  f,
		history: history,
		logger: logger.With(
			zap.String("protocol", codec.Protocol()),
			zap.String("version", codec.Version()),
		),
	}
}

// AddTransport attaches a channel. Only valid before Start.
func (e *Engine) AddTransport(t Transport) {
	e.transports = append(e.transports, t)
}

// Codec exposes the engine's protocol codec to its transports.
func (e *Engine) Codec() Codec { return e.codec }

// History exposes the engine's pull buffer.
func (e *Engine) History() *History { return e.history }

// Start brings every configured transport up. It runs at most once; a
// second call reports an error instead of double-registering channels.
func (e *Engine) Start(ctx context.Context) error {
	if !e.state.CompareAndSwap(stateCreated, stateStarted) {
		if e.state.Load() == stateStopped {
			return ErrStopped
		}
		return ErrStarted
	}
	for _, t := range e.transports {
		if err := t.Start(ctx); err != nil {
			e.logger.Error("transport start failed",
				zap.String("transport", t.Name()), zap.Error(err))
			e.Stop()
			return err
		}
		e.logger.Info("transport started", zap.String("transport", t.Name()))
	}
	return nil
}

// Stop detaches every transport, clearing timers and closing sockets.
// After Stop, Dispatch is a no-op.
func (e *Engine) Stop() {
	if e.state.Swap(stateStopped) == stateStopped {
		return
	}
	for _, t := range e.transports {
		t.Stop()
	}
	e.logger.Info("engine stopped")
}

// Running reports whether the engine is in the Started state.
func (e *Engine) Running() bool {
	return e.state.Load() == stateStarted
}

// Dispatch offers one canonical event to this engine. Rejected or
// unrepresentable events produce no side effect. Accepted events are
// encoded once and handed to every transport; per-transport delivery is
// non-blocking, so one stalled channel cannot delay another.
func (e *Engine) Dispatch(ev *model.Event) {
	if e.state.Load() != stateStarted {
		return
	}
	if !e.filter.Match(ev) {
		return
	}
	payload, ok := e.codec.EncodeEvent(ev, e.seq.Add(1))
	if !ok {
		e.logger.Debug("event not representable, skipped",
			zap.String("event_type", string(ev.Type)))
		return
	}
	e.history.Append(payload)
	for _, t := range e.transports {
		t.Deliver(payload)
	}
}

// Apply routes one inbound wire action through the codec. All failures,
// including unknown actions and missing capabilities, come back as the
// protocol's failure envelope.
func (e *Engine) Apply(ctx context.Context, action string, params, echo json.RawMessage) Result {
	return e.codec.Apply(ctx, action, params, echo)
}
