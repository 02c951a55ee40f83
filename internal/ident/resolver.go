// Package ident maps platform-native identifiers to gateway-assigned
// integer surrogates. Numeric natives pass through untouched; string
// natives get a random surrogate that is persisted and never reassigned.
package ident

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

// ErrConflict is returned by a Store when an insert loses a uniqueness
// race, either on the native key or on the surrogate.
var ErrConflict = errors.New("ident: conflicting row")

// Store is the persisted per-platform identifier table. Rows are append
// only. Implementations must enforce uniqueness of both the native string
// and the surrogate within a platform.
type Store interface {
	// BySource returns the surrogate for a native string, if present.
	BySource(ctx context.Context, platform, source string) (int64, bool, error)
	// ByNumber returns the native string for a surrogate, if present.
	ByNumber(ctx context.Context, platform string, num int64) (string, bool, error)
	// Insert persists a new row. Returns ErrConflict if either key exists.
	Insert(ctx context.Context, platform, source string, num int64) error
}

// surrogateMax bounds the random draw. Surrogates are drawn uniformly from
// [surrogateMin, surrogateMax); at 2^53 the space is large enough that a
// collision forces at most a retry, never an allocation failure, and the
// values survive JSON number handling in every protocol client.
const (
	surrogateMin = int64(1) << 48
	surrogateMax = int64(1) << 53
)

// Resolver allocates and looks up identifier surrogates for one or more
// platforms over a shared Store.
type Resolver struct {
	store  Store
	logger *zap.Logger

	mu   sync.Mutex
	keys map[string]*sync.Mutex // per (platform, source) create serialization
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
		keys:   map[string]*sync.Mutex{},
	}
}

// Resolve returns the ID triple for a native identifier, creating the row
// on first reference. Integer-shaped natives never touch storage.
func (r *Resolver) Resolve(ctx context.Context, platform, source string) (model.ID, error) {
	if n, err := strconv.ParseInt(source, 10, 64); err == nil {
		return model.NumericID(n), nil
	}

	num, ok, err := r.store.BySource(ctx, platform, source)
	if err != nil {
		return model.ID{}, fmt.Errorf("resolve %s/%s: %w", platform, source, err)
	}
	if ok {
		return model.ID{Source: source, Str: source, Num: num}, nil
	}
	return r.create(ctx, platform, source)
}

// ResolveNumber maps a surrogate back to its ID triple. A number with no
// table row is taken to be a numeric-native identifier.
func (r *Resolver) ResolveNumber(ctx context.Context, platform string, num int64) (model.ID, error) {
	source, ok, err := r.store.ByNumber(ctx, platform, num)
	if err != nil {
		return model.ID{}, fmt.Errorf("resolve %s/#%d: %w", platform, num, err)
	}
	if !ok {
		return model.NumericID(num), nil
	}
	return model.ID{Source: source, Str: source, Num: num}, nil
}

// create allocates a surrogate for a new native string. Creation for the
// same (platform, source) is serialized so concurrent first references
// cannot mint two surrogates; the store's uniqueness constraint backstops
// races across processes.
func (r *Resolver) create(ctx context.Context, platform, source string) (model.ID, error) {
	key := platform + "\x00" + source
	r.mu.Lock()
	lock, ok := r.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		r.keys[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	// Another caller may have won while we waited.
	num, ok, err := r.store.BySource(ctx, platform, source)
	if err != nil {
		return model.ID{}, fmt.Errorf("create %s/%s: %w", platform, source, err)
	}
	if ok {
		return model.ID{Source: source, Str: source, Num: num}, nil
	}

	for {
		candidate := surrogateMin + rand.Int63n(surrogateMax-surrogateMin)
		err := r.store.Insert(ctx, platform, source, candidate)
		if err == nil {
			return model.ID{Source: source, Str: source, Num: candidate}, nil
		}
		if errors.Is(err, ErrConflict) {
			// Either our candidate collided or another process claimed
			// the source. Re-check the source, then redraw.
			num, ok, lerr := r.store.BySource(ctx, platform, source)
			if lerr != nil {
				return model.ID{}, fmt.Errorf("create %s/%s: %w", platform, source, lerr)
			}
			if ok {
				return model.ID{Source: source, Str: source, Num: num}, nil
			}
			r.logger.Debug("surrogate collision, redrawing",
				zap.String("platform", platform), zap.Int64("candidate", candidate))
			continue
		}
		return model.ID{}, fmt.Errorf("create %s/%s: %w", platform, source, err)
	}
}
