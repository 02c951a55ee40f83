// Package gateway composes platform accounts with their protocol engines:
// it resolves account identity, builds one engine per configured protocol
// instance, wires them onto the dispatch bus, and exposes their combined
// HTTP surface.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/bus"
	"github.com/nidhogg/crossgate/internal/config"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"github.com/nidhogg/crossgate/internal/registry"
	"go.uber.org/zap"
)

// Gateway manages all registered accounts and routes canonical events.
type Gateway struct {
	reg    *registry.Registry
	ids    *ident.Resolver
	bus    *bus.Bus
	router chi.Router

	mu       sync.RWMutex
	accounts map[string]*Account
	logger   *zap.Logger
}

// NewGateway creates a gateway manager.
func NewGateway(reg *registry.Registry, ids *ident.Resolver, b *bus.Bus, logger *zap.Logger) *Gateway {
	return &Gateway{
		reg:      reg,
		ids:      ids,
		bus:      b,
		router:   chi.NewRouter(),
		accounts: map[string]*Account{},
		logger:   logger,
	}
}

func accountKey(platform, id string) string {
	return platform + "/" + id
}

// Register builds an account's engines from its configuration, subscribes
// them to the dispatch bus and mounts their HTTP routes.
func (g *Gateway) Register(ctx context.Context, cfg config.AccountConfig, api adapter.API) (*Account, error) {
	self, err := g.ids.Resolve(ctx, cfg.Platform, cfg.SelfID)
	if err != nil {
		return nil, fmt.Errorf("resolve self id %s/%s: %w", cfg.Platform, cfg.SelfID, err)
	}

	acct := &Account{
		Platform: cfg.Platform,
		ID:       cfg.SelfID,
		Self:     self,
		API:      api,
	}
	for _, pc := range cfg.Protocols {
		eng, err := g.buildEngine(acct, pc)
		if err != nil {
			return nil, fmt.Errorf("build %s engine for %s: %w", pc.Protocol, cfg.Platform, err)
		}
		acct.engines = append(acct.engines, eng)
	}

	key := accountKey(cfg.Platform, cfg.SelfID)
	g.mu.Lock()
	if _, dup := g.accounts[key]; dup {
		g.mu.Unlock()
		return nil, fmt.Errorf("account already registered: %s", key)
	}
	g.accounts[key] = acct
	g.router.Mount("/"+cfg.Platform+"/"+cfg.SelfID, acct.routes())
	g.mu.Unlock()

	for _, eng := range acct.engines {
		e := eng
		cancel := g.bus.Subscribe(cfg.Platform, cfg.SelfID,
			e.engine.Codec().Protocol()+"/"+e.engine.Codec().Version(),
			func(ev *model.Event) { e.engine.Dispatch(ev) })
		acct.cancels = append(acct.cancels, cancel)
	}

	g.logger.Info("registered account",
		zap.String("platform", cfg.Platform),
		zap.String("account", cfg.SelfID),
		zap.Int("engines", len(acct.engines)))
	return acct, nil
}

// StartAll starts every engine of every account.
func (g *Gateway) StartAll(ctx context.Context) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for key, acct := range g.accounts {
		if err := acct.start(ctx); err != nil {
			g.logger.Error("account start failed",
				zap.String("account", key), zap.Error(err))
			return fmt.Errorf("start %s: %w", key, err)
		}
		g.logger.Info("account started", zap.String("account", key))
	}
	return nil
}

// HandleEvent is the entry point platform adapters feed canonical events
// into. It stamps the platform and account and publishes on the bus.
func (g *Gateway) HandleEvent(ev *model.Event) error {
	if ev.Platform == "" {
		return fmt.Errorf("event missing platform")
	}
	return g.bus.Publish(ev.SelfID.Str, ev)
}

// Routes returns the combined HTTP surface of all registered accounts.
func (g *Gateway) Routes() chi.Router { return g.router }

// Account looks up a registered account.
func (g *Gateway) Account(platform, id string) (*Account, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	acct, ok := g.accounts[accountKey(platform, id)]
	return acct, ok
}

// Close stops every account's engines and detaches them from the bus.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key, acct := range g.accounts {
		acct.stop()
		g.logger.Info("account stopped", zap.String("account", key))
	}
	g.accounts = map[string]*Account{}
}
