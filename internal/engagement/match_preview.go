package engagement

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

const DefaultPreviewFailure = "Unable to analyze this opportunity right now. Please try again."

type PreviewStatus string

const (
	PreviewIdle    PreviewStatus = "idle"
	PreviewLoading PreviewStatus = "loading"
	PreviewReady   PreviewStatus = "ready"
	PreviewFailed  PreviewStatus = "failed"
)

// PreviewState is what the session currently shows. Result is set only when ready,
// Message and Err only when failed.
type PreviewState struct {
	Status        PreviewStatus
	OpportunityID uuid.UUID
	Token         uint64
	Result        *types.MatchPreview
	Message       string
	Err           error
}

// MatchPreviewSession runs one on-demand fit analysis at a time. Every Start takes a
// new token and cancels the previous request; a response carrying a stale token is
// dropped.
type MatchPreviewSession struct {
	api API
	log *logger.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	state  PreviewState

	wg  sync.WaitGroup
	obs observers[PreviewState]
}

func NewMatchPreviewSession(api API, log *logger.Logger) *MatchPreviewSession {
	return &MatchPreviewSession{
		api:   api,
		log:   logger.OrNop(log).With("component", "MatchPreviewSession"),
		state: PreviewState{Status: PreviewIdle},
	}
}

// Start analyzes opportunityID. ctx bounds the request. The returned channel is
// closed once this request has settled, whether or not its result was kept.
func (p *MatchPreviewSession) Start(ctx context.Context, sess session.Session, opportunityID uuid.UUID) <-chan struct{} {
	ctx = ctxutil.Default(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.token++
	tok := p.token
	reqCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = PreviewState{Status: PreviewLoading, OpportunityID: opportunityID, Token: tok}
	view := p.viewLocked()
	p.mu.Unlock()

	p.obs.notify(view)

	done := make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)
		defer cancel()
		p.run(reqCtx, sess, opportunityID, tok)
	}()
	return done
}

func (p *MatchPreviewSession) run(ctx context.Context, sess session.Session, opportunityID uuid.UUID, tok uint64) {
	var err error
	ctx, span := startSpan(ctx, "MatchPreviewSession.Start",
		attribute.String("opportunity.id", opportunityID.String()),
		attribute.Int64("preview.token", int64(tok)),
	)
	defer func() { endSpan(span, err) }()

	res, err := p.api.AnalyzeMatch(ctx, sess, opportunityID)
	if err != nil {
		err = apierr.Classify(err)
	}

	p.mu.Lock()
	if tok != p.token {
		p.mu.Unlock()
		p.log.Debug("discarding stale preview", "opportunity_id", opportunityID, "token", tok)
		span.SetAttributes(attribute.Bool("preview.stale", true))
		return
	}
	p.cancel = nil
	if err != nil {
		p.state = PreviewState{
			Status:        PreviewFailed,
			OpportunityID: opportunityID,
			Token:         tok,
			Message:       apierr.UserMessage(err, DefaultPreviewFailure),
			Err:           err,
		}
	} else {
		if res.OpportunityID == uuid.Nil {
			res.OpportunityID = opportunityID
		}
		p.state = PreviewState{Status: PreviewReady, OpportunityID: opportunityID, Token: tok, Result: &res}
	}
	view := p.viewLocked()
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("match preview failed", "opportunity_id", opportunityID, "error", err)
	}
	p.obs.notify(view)
}

// Close returns the session to idle and invalidates any request still running.
func (p *MatchPreviewSession) Close() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.token++
	p.state = PreviewState{Status: PreviewIdle, Token: p.token}
	view := p.viewLocked()
	p.mu.Unlock()

	p.obs.notify(view)
}

// Wait blocks until every started request has settled.
func (p *MatchPreviewSession) Wait() {
	p.wg.Wait()
}

func (p *MatchPreviewSession) State() PreviewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *MatchPreviewSession) Subscribe(fn func(PreviewState)) (unsubscribe func()) {
	return p.obs.subscribe(fn)
}

func (p *MatchPreviewSession) viewLocked() PreviewState {
	st := p.state
	if st.Result != nil {
		r := *st.Result
		r.MissingSkills = append([]string(nil), r.MissingSkills...)
		st.Result = &r
	}
	return st
}
