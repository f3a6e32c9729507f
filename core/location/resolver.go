package location

import (
	"math/big"
	"sort"
	"sync"

	"go.uber.org/zap"

	"relocation-cost/core/brackets"
	"relocation-cost/internal/errors"
	"relocation-cost/internal/logging"
)

// Resolver maps jurisdiction keys to effective tax profiles. Merging
// country, region and city layers is repeatable work, so results are
// memoized per key. The cache is pure memoization: recomputing and
// overwriting with an equal profile is harmless, and no correctness
// depends on a hit.
type Resolver struct {
	mu     sync.RWMutex
	custom map[Key]entry
	merged map[Key]*brackets.Profile
}

// NewResolver creates a resolver over the built-in tables.
func NewResolver() *Resolver {
	return &Resolver{
		custom: make(map[Key]entry),
		merged: make(map[Key]*brackets.Profile),
	}
}

// Register adds or overrides one jurisdiction layer. Custom layers take
// precedence over the built-in tables and invalidate memoized merges.
func (r *Resolver) Register(key Key, profile *brackets.Profile, livingCost *big.Rat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[key] = entry{profile: profile, livingCost: livingCost}
	r.merged = make(map[Key]*brackets.Profile)
}

// lookup finds one layer, custom tables first.
func (r *Resolver) lookup(key Key) (entry, bool) {
	if e, ok := r.custom[key]; ok {
		return e, true
	}
	e, ok := builtins[key]
	return e, ok
}

// layers collects the defined layers for a key, country first. Every
// named component must be a known jurisdiction.
func (r *Resolver) layers(key Key) ([]entry, error) {
	prefixes := []Key{key.countryKey()}
	if key.Region != "" {
		prefixes = append(prefixes, key.regionKey())
	}
	if key.City != "" {
		prefixes = append(prefixes, key)
	}

	layers := make([]entry, 0, len(prefixes))
	for _, prefix := range prefixes {
		e, ok := r.lookup(prefix)
		if !ok {
			return nil, errors.NotFound("jurisdiction", prefix.String())
		}
		layers = append(layers, e)
	}
	return layers, nil
}

// Profile returns the effective tax profile for a location: all
// defined layers merged country-down. A location where no layer
// defines a schedule yields an empty profile, which behaves as a
// zero-tax identity for every status.
func (r *Resolver) Profile(key Key) (*brackets.Profile, error) {
	r.mu.RLock()
	cached, ok := r.merged[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	layers, err := r.layers(key)
	if err != nil {
		return nil, err
	}

	merged := brackets.NewProfile(nil)
	for i, layer := range layers {
		if layer.profile == nil {
			continue
		}
		logging.Debug("merging tax layer", zap.String("location", key.String()), zap.Int("layer", i))
		merged, err = brackets.MergeProfiles(merged, layer.profile)
		if err != nil {
			return nil, err
		}
	}

	r.merged[key] = merged
	return merged, nil
}

// LivingCost returns the cost-of-living index for a location, taken
// from the most specific layer that defines one. The second return is
// false when no layer does, or the location itself is unknown.
func (r *Resolver) LivingCost(key Key) (*big.Rat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	layers, err := r.layers(key)
	if err != nil {
		return nil, false
	}
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].livingCost != nil {
			return layers[i].livingCost, true
		}
	}
	return nil, false
}

// Known lists every jurisdiction the resolver can price, built-in and
// custom, sorted by canonical string form.
func (r *Resolver) Known() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Key]struct{}, len(builtins)+len(r.custom))
	for k := range builtins {
		seen[k] = struct{}{}
	}
	for k := range r.custom {
		seen[k] = struct{}{}
	}

	keys := make([]Key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
