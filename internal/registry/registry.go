// Package registry maps wire-protocol names onto codec builders. The
// registry is constructed once at process start and passed to whatever
// composes accounts, keeping the protocol catalog out of global state.
package registry

import (
	"fmt"
	"sort"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/milky"
	"github.com/nidhogg/crossgate/internal/model"
	"github.com/nidhogg/crossgate/internal/onebot11"
	"github.com/nidhogg/crossgate/internal/onebot12"
	"github.com/nidhogg/crossgate/internal/satori"
	"go.uber.org/zap"
)

// BuildContext carries everything a codec needs at construction time.
type BuildContext struct {
	API      adapter.API
	IDs      *ident.Resolver
	Platform string
	Self     model.ID
	Token    string
	History  *engine.History
	Logger   *zap.Logger
}

// Builder constructs one protocol codec.
type Builder func(bc BuildContext) engine.Codec

// Registry holds the known protocol builders.
type Registry struct {
	builders map[string]Builder
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{builders: map[string]Builder{}}
}

// Default returns a registry with every built-in protocol registered.
func Default() *Registry {
	r := New()
	r.Register("onebot11", func(bc BuildContext) engine.Codec {
		return onebot11.New(bc.API, bc.IDs, bc.Platform, bc.Self, bc.Logger)
	})
	r.Register("onebot12", func(bc BuildContext) engine.Codec {
		return onebot12.New(bc.API, bc.IDs, bc.Platform, bc.Self, bc.History, bc.Logger)
	})
	r.Register("milky", func(bc BuildContext) engine.Codec {
		return milky.New(bc.API, bc.IDs, bc.Platform, bc.Self, bc.Logger)
	})
	r.Register("satori", func(bc BuildContext) engine.Codec {
		return satori.New(bc.API, bc.IDs, bc.Platform, bc.Self, bc.Token, bc.Logger)
	})
	return r
}

// Register adds or replaces a protocol builder.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// Build constructs the named protocol's codec.
func (r *Registry) Build(name string, bc BuildContext) (engine.Codec, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown protocol: %s", name)
	}
	return b(bc), nil
}

// Names lists the registered protocols, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
