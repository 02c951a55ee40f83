package gateway

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/config"
	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/filter"
	"github.com/nidhogg/crossgate/internal/model"
	"github.com/nidhogg/crossgate/internal/registry"
	"github.com/nidhogg/crossgate/internal/transport"
	"go.uber.org/zap"
)

// Account is one platform identity with its protocol engines.
type Account struct {
	Platform string
	ID       string
	Self     model.ID
	API      adapter.API

	engines []*engineEntry
	cancels []func()
}

// engineEntry pairs an engine with its HTTP mount.
type engineEntry struct {
	engine *engine.Engine
	mount  string
	router chi.Router
}

// buildEngine assembles one protocol instance: codec, filter, history,
// and the transports its configuration enables.
func (g *Gateway) buildEngine(acct *Account, pc config.ProtocolConfig) (*engineEntry, error) {
	history := engine.NewHistory(pc.HistorySize)
	codec, err := g.reg.Build(pc.Protocol, registry.BuildContext{
		API:      acct.API,
		IDs:      g.ids,
		Platform: acct.Platform,
		Self:     acct.Self,
		Token:    pc.AccessToken,
		History:  history,
		Logger:   g.logger,
	})
	if err != nil {
		return nil, err
	}
	f, err := filter.Parse(pc.Filter)
	if err != nil {
		return nil, err
	}

	eng := engine.New(codec, f, history, g.logger.With(
		zap.String("platform", acct.Platform),
		zap.String("account", acct.ID),
	))
	log := g.logger.With(
		zap.String("platform", acct.Platform),
		zap.String("account", acct.ID),
		zap.String("protocol", pc.Protocol),
	)

	httpPrefix, wsPath := surfacePaths(pc.Protocol)
	r := chi.NewRouter()
	if pc.HTTP.Enabled {
		transport.NewHTTPAction(eng, pc.AccessToken, httpPrefix, log).Register(r)
	}
	if pc.WS.Enabled {
		ws := transport.NewWSServer(eng, pc.AccessToken, wsPath, log)
		ws.Register(r)
		eng.AddTransport(ws)
	}
	for _, rc := range pc.WSReverse {
		eng.AddTransport(transport.NewWSReverse(eng, rc.URL, pc.AccessToken, pc.ReconnectInterval.Std(), log))
	}
	for _, wc := range pc.Webhooks {
		eng.AddTransport(transport.NewWebhook(codec, wc.URL, wc.Secret, transport.DefaultWebhookTimeout, log))
	}
	if pc.HeartbeatInterval > 0 {
		eng.AddTransport(transport.NewHeartbeat(acct.Platform, acct.Self, pc.HeartbeatInterval.Std(), eng.Dispatch, log))
	}

	return &engineEntry{
		engine: eng,
		mount:  "/" + codec.Protocol() + "/" + codec.Version(),
		router: r,
	}, nil
}

// surfacePaths returns the action-route prefix and the WS upgrade path
// for a protocol. The OneBot family upgrades on the engine root; Milky
// and Satori carry actions under /api resp. a method route and upgrade
// on /events.
func surfacePaths(protocol string) (httpPrefix, wsPath string) {
	switch protocol {
	case "milky":
		return "/api", "/events"
	case "satori":
		return "", "/events"
	default:
		return "", "/"
	}
}

func (a *Account) routes() chi.Router {
	r := chi.NewRouter()
	for _, e := range a.engines {
		r.Mount(e.mount, e.router)
	}
	return r
}

func (a *Account) start(ctx context.Context) error {
	for _, e := range a.engines {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *Account) stop() {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil
	for _, e := range a.engines {
		e.engine.Stop()
	}
}

// Engines exposes the account's engines, oldest first.
func (a *Account) Engines() []*engine.Engine {
	out := make([]*engine.Engine, 0, len(a.engines))
	for _, e := range a.engines {
		out = append(out, e.engine)
	}
	return out
}
