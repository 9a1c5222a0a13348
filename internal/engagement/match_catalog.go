package engagement

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

// MatchCatalog caches the student's ranked matches. The list is read-only and is
// only ever replaced as a whole, in backend order.
type MatchCatalog struct {
	api API
	log *logger.Logger

	mu      sync.RWMutex
	matches []types.MatchResult
	loaded  bool

	obs observers[[]types.MatchResult]
}

func NewMatchCatalog(api API, log *logger.Logger) *MatchCatalog {
	return &MatchCatalog{
		api: api,
		log: logger.OrNop(log).With("component", "MatchCatalog"),
	}
}

func (c *MatchCatalog) Load(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "MatchCatalog.Load")
	defer func() { endSpan(span, err) }()

	matches, err := c.api.ListMatches(ctx, sess)
	if err != nil {
		err = apierr.Classify(err)
		c.log.Warn("load matches failed", "user_id", sess.UserID, "error", err)
		return err
	}
	span.SetAttributes(attribute.Int("matches.count", len(matches)))

	c.mu.Lock()
	c.matches = append([]types.MatchResult(nil), matches...)
	c.loaded = true
	view := c.snapshotLocked()
	c.mu.Unlock()

	c.obs.notify(view)
	return nil
}

// Matches returns a copy of the cached list.
func (c *MatchCatalog) Matches() []types.MatchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Loaded reports whether a load has ever succeeded.
func (c *MatchCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *MatchCatalog) Lookup(opportunityID uuid.UUID) (types.MatchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.matches {
		if m.OpportunityID == opportunityID {
			return cloneMatch(m), true
		}
	}
	return types.MatchResult{}, false
}

func (c *MatchCatalog) Subscribe(fn func([]types.MatchResult)) (unsubscribe func()) {
	return c.obs.subscribe(fn)
}

func (c *MatchCatalog) snapshotLocked() []types.MatchResult {
	out := make([]types.MatchResult, len(c.matches))
	for i, m := range c.matches {
		out[i] = cloneMatch(m)
	}
	return out
}

func cloneMatch(m types.MatchResult) types.MatchResult {
	m.MissingSkills = append([]string(nil), m.MissingSkills...)
	m.ResearchTrends = append([]string(nil), m.ResearchTrends...)
	return m
}
