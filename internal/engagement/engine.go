package engagement

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

type Options struct {
	Log        *logger.Logger
	PlanPolicy PlanPolicy
	// Now overrides the clock used for plan deadlines.
	Now func() time.Time
}

// Engine bundles the components that share one backend and one session at a time.
type Engine struct {
	Matches      *MatchCatalog
	Preview      *MatchPreviewSession
	Applications *ApplicationLedger
	Plans        *ImprovementPlanTracker
	Gaps         *ResearchGapVault

	log *logger.Logger
}

func New(api API, opts Options) *Engine {
	log := logger.OrNop(opts.Log)
	return &Engine{
		Matches:      NewMatchCatalog(api, log),
		Preview:      NewMatchPreviewSession(api, log),
		Applications: NewApplicationLedger(api, log),
		Plans:        NewImprovementPlanTracker(api, opts.PlanPolicy, opts.Now, log),
		Gaps:         NewResearchGapVault(api, log),
		log:          log.With("component", "Engine"),
	}
}

// Refresh loads every collection the session's role can see, concurrently. The first
// failure cancels the remaining loads and is returned.
func (e *Engine) Refresh(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "Engine.Refresh", attribute.String("session.role", string(sess.Role)))
	defer func() { endSpan(span, err) }()

	if _, err := sess.BearerToken(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if sess.IsMentor() {
		g.Go(func() error { return e.Applications.ListForMentor(gctx, sess) })
	} else {
		g.Go(func() error { return e.Matches.Load(gctx, sess) })
		g.Go(func() error { return e.Applications.ListMine(gctx, sess) })
		g.Go(func() error { return e.Plans.Load(gctx, sess) })
	}
	g.Go(func() error { return e.Gaps.ListSaved(gctx, sess) })

	if err := g.Wait(); err != nil {
		e.log.Warn("refresh failed", "role", sess.Role, "error", err)
		return apierr.Classify(err)
	}
	return nil
}

// Close stops the preview session and waits for its request to settle.
func (e *Engine) Close() {
	e.Preview.Close()
	e.Preview.Wait()
}
