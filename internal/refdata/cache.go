package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caseflow/internal/refdata/metrics"
	"caseflow/pkg/platform/sentinel"
)

// DefaultCacheTTL bounds how stale a cached reference record may be. Offence
// windows and initiation codes change rarely; five minutes keeps corrections
// honest without hammering the service.
const DefaultCacheTTL = 5 * time.Minute

// CachedGateway is a redis read-through decorator over another Gateway. Only
// the hot lookups from the validation path are cached; document type rules
// are fetched fresh because acceptance-time flushes must see current rules.
type CachedGateway struct {
	next    Gateway
	redis   *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// CacheOption configures the CachedGateway.
type CacheOption func(*CachedGateway)

// WithCacheMetrics records hit/miss/error counts per resource.
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *CachedGateway) {
		c.metrics = m
	}
}

// NewCachedGateway wraps next with a redis read-through cache.
func NewCachedGateway(next Gateway, client *redis.Client, ttl time.Duration, opts ...CacheOption) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &CachedGateway{next: next, redis: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(resource, key string) string {
	return fmt.Sprintf("refdata:%s:%s", resource, key)
}

// lookupOutcome classifies a fetch failure for the lookup counter. An unknown
// key is an answer, not an outage, and must not pollute the error rate.
func lookupOutcome(err error) string {
	if errors.Is(err, sentinel.ErrNotFound) {
		return "not_found"
	}
	return "error"
}

// readThrough fills out from cache when possible, otherwise calls fetch and
// caches the result. Cache failures degrade to the underlying gateway; they
// never fail a lookup.
func readThrough[T any](ctx context.Context, c *CachedGateway, resource, key string, fetch func(context.Context, string) (*T, error)) (*T, error) {
	ck := cacheKey(resource, key)
	if raw, err := c.redis.Get(ctx, ck).Bytes(); err == nil {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			c.metrics.IncrementLookup(resource, "hit")
			return &out, nil
		}
	}

	out, err := fetch(ctx, key)
	if err != nil {
		c.metrics.IncrementLookup(resource, lookupOutcome(err))
		return nil, err
	}
	c.metrics.IncrementLookup(resource, "miss")

	if raw, err := json.Marshal(out); err == nil {
		c.redis.Set(ctx, ck, raw, c.ttl)
	}
	return out, nil
}

func (c *CachedGateway) InitiationCode(ctx context.Context, code string) (*InitiationCode, error) {
	return readThrough(ctx, c, "initiation-code", code, c.next.InitiationCode)
}

func (c *CachedGateway) CaseMarker(ctx context.Context, code string) (*CaseMarker, error) {
	return readThrough(ctx, c, "case-marker", code, c.next.CaseMarker)
}

func (c *CachedGateway) Offence(ctx context.Context, code string) (*OffenceDefinition, error) {
	return readThrough(ctx, c, "offence", code, c.next.Offence)
}

func (c *CachedGateway) OrganisationalUnit(ctx context.Context, code string) (*OrganisationalUnit, error) {
	return readThrough(ctx, c, "org-unit", code, c.next.OrganisationalUnit)
}

func (c *CachedGateway) CustodyStatus(ctx context.Context, code string) (*CustodyStatus, error) {
	return readThrough(ctx, c, "custody-status", code, c.next.CustodyStatus)
}

// DocumentTypeAccess bypasses the cache; see type comment.
func (c *CachedGateway) DocumentTypeAccess(ctx context.Context, documentType string) (*DocumentTypeAccess, error) {
	return c.next.DocumentTypeAccess(ctx, documentType)
}

func (c *CachedGateway) ProsecutorByCode(ctx context.Context, code string) (*Prosecutor, error) {
	return readThrough(ctx, c, "prosecutor", code, c.next.ProsecutorByCode)
}
