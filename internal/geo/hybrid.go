package geo

import (
	"context"
	"errors"
)

// HybridResolver tries the static table, then the cache, then the API,
// writing API answers back to the cache.
type HybridResolver struct {
	Cache  *Cache
	Static Resolver // optional
	API    Resolver // optional
}

func NewHybridResolver(cache *Cache, static Resolver, api Resolver) *HybridResolver {
	return &HybridResolver{
		Cache:  cache,
		Static: static,
		API:    api,
	}
}

func (h *HybridResolver) ResolveCountry(ctx context.Context, key string) (CountryInfo, error) {
	k := normalizeKey(key)
	if k == "" {
		return CountryInfo{}, errors.New("empty country key")
	}

	if h.Static != nil {
		if v, err := h.Static.ResolveCountry(ctx, key); err == nil {
			return v, nil
		}
	}

	if h.Cache != nil {
		_ = h.Cache.Load()
		if v, ok := h.Cache.Get(k); ok {
			return v, nil
		}
	}

	if h.API != nil {
		v, err := h.API.ResolveCountry(ctx, key)
		if err != nil {
			return CountryInfo{}, err
		}
		if h.Cache != nil {
			_ = h.Cache.Put(k, v)
		}
		return v, nil
	}

	return CountryInfo{}, errors.New("no resolver available")
}

// CountryLabel renders "US (United States)", or the bare code when resolution fails.
func CountryLabel(ctx context.Context, r Resolver, code string) string {
	if r == nil || code == "" {
		return code
	}
	info, err := r.ResolveCountry(ctx, code)
	if err != nil || info.Name == "" {
		return code
	}
	return code + " (" + info.Name + ")"
}
