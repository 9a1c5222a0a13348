package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

// LedgerScope names the collection the ledger last loaded.
type LedgerScope string

const (
	ScopeNone   LedgerScope = ""
	ScopeMine   LedgerScope = "mine"
	ScopeMentor LedgerScope = "mentor"
)

// ApplicationLedger owns the cached applications for one session: the student's own
// submissions or the applications to a mentor's opportunities.
type ApplicationLedger struct {
	api API
	log *logger.Logger

	mu    sync.Mutex
	apps  []types.Application
	scope LedgerScope

	guard *inflight
	obs   observers[[]types.Application]
}

func NewApplicationLedger(api API, log *logger.Logger) *ApplicationLedger {
	return &ApplicationLedger{
		api:   api,
		log:   logger.OrNop(log).With("component", "ApplicationLedger"),
		guard: newInflight(),
	}
}

// Submit applies to opportunityID. Validation and the local duplicate check happen
// before any request is sent.
func (l *ApplicationLedger) Submit(
	ctx context.Context,
	sess session.Session,
	opportunityID uuid.UUID,
	coverLetter string,
	matchScore *float64,
	matchDetails map[string]any,
) (app types.Application, err error) {
	ctx, span := startSpan(ctx, "ApplicationLedger.Submit", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	draft, err := newDraft(opportunityID, coverLetter, matchScore, matchDetails)
	if err != nil {
		return types.Application{}, err
	}
	if l.hasApplied(sess.UserID, opportunityID) {
		return types.Application{}, apierr.DuplicateApplication("")
	}

	key := "submit:" + opportunityID.String()
	if !l.guard.acquire(key) {
		return types.Application{}, apierr.InFlight("this application")
	}
	defer l.guard.release(key)

	created, err := l.api.SubmitApplication(ctx, sess, draft)
	if err != nil {
		if errors.Is(err, apierr.ErrDuplicateApplication) {
			l.log.Info("backend reported duplicate application", "opportunity_id", opportunityID, "student_id", sess.UserID)
		} else {
			l.log.Warn("submit application failed", "opportunity_id", opportunityID, "error", err)
		}
		return types.Application{}, apierr.Classify(err)
	}
	if created.OpportunityID == uuid.Nil {
		created.OpportunityID = opportunityID
	}
	if created.StudentID == uuid.Nil {
		created.StudentID = sess.UserID
	}
	if created.Status == "" {
		created.Status = types.ApplicationSubmitted
	}

	l.mu.Lock()
	l.upsertLocked(created)
	view := l.snapshotLocked()
	l.mu.Unlock()

	l.obs.notify(view)
	return created, nil
}

func newDraft(opportunityID uuid.UUID, coverLetter string, matchScore *float64, matchDetails map[string]any) (engagementapi.ApplicationDraft, error) {
	if opportunityID == uuid.Nil {
		return engagementapi.ApplicationDraft{}, apierr.Validation("opportunity is required")
	}
	if strings.TrimSpace(coverLetter) == "" {
		return engagementapi.ApplicationDraft{}, apierr.Validation("cover letter is required")
	}
	if matchScore != nil && (*matchScore < 0 || *matchScore > 100) {
		return engagementapi.ApplicationDraft{}, apierr.Validationf("match score %.1f is outside 0-100", *matchScore)
	}
	draft := engagementapi.ApplicationDraft{
		OpportunityID: opportunityID,
		CoverLetter:   coverLetter,
		MatchScore:    matchScore,
	}
	if len(matchDetails) > 0 {
		raw, err := json.Marshal(matchDetails)
		if err != nil {
			return engagementapi.ApplicationDraft{}, apierr.Wrap(apierr.KindValidation, "match details are not serializable", err)
		}
		draft.MatchDetails = datatypes.JSON(raw)
	}
	return draft, nil
}

func (l *ApplicationLedger) hasApplied(studentID, opportunityID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.apps {
		if a.OpportunityID != opportunityID {
			continue
		}
		if a.StudentID == studentID || a.StudentID == uuid.Nil {
			return true
		}
	}
	return false
}

func (l *ApplicationLedger) ListMine(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "ApplicationLedger.ListMine")
	defer func() { endSpan(span, err) }()
	return l.load(ctx, sess, ScopeMine)
}

func (l *ApplicationLedger) ListForMentor(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "ApplicationLedger.ListForMentor")
	defer func() { endSpan(span, err) }()
	return l.load(ctx, sess, ScopeMentor)
}

func (l *ApplicationLedger) load(ctx context.Context, sess session.Session, scope LedgerScope) error {
	var (
		apps []types.Application
		err  error
	)
	switch scope {
	case ScopeMine:
		apps, err = l.api.ListMyApplications(ctx, sess)
	case ScopeMentor:
		apps, err = l.api.ListMentorApplications(ctx, sess)
	default:
		return nil
	}
	if err != nil {
		l.log.Warn("load applications failed", "scope", scope, "error", err)
		return apierr.Classify(err)
	}

	l.mu.Lock()
	l.apps = append([]types.Application(nil), apps...)
	l.scope = scope
	view := l.snapshotLocked()
	l.mu.Unlock()

	l.obs.notify(view)
	return nil
}

// UpdateStatus moves an application to status optimistically. A rejected change
// restores the previous status; a conflict also reloads the last loaded scope.
func (l *ApplicationLedger) UpdateStatus(ctx context.Context, sess session.Session, applicationID uuid.UUID, status types.ApplicationStatus) (err error) {
	ctx, span := startSpan(ctx, "ApplicationLedger.UpdateStatus",
		attribute.String("application.id", applicationID.String()),
		attribute.String("application.status", string(status)),
	)
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return apierr.Validationf("unknown application status %q", status)
	}

	var confirmed types.Application
	err = mutate(ctx, l.guard, mutation[types.ApplicationStatus]{
		key:    "application:" + applicationID.String(),
		entity: "this application",
		snapshot: func() (types.ApplicationStatus, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			i := l.indexLocked(applicationID)
			if i < 0 {
				return "", apierr.Validation("application is not loaded")
			}
			prev := l.apps[i].Status
			if !prev.CanTransition(status) {
				return "", apierr.Validationf("cannot move application from %s to %s", prev, status)
			}
			return prev, nil
		},
		apply: func() {
			l.setStatus(applicationID, status, "")
		},
		remote: func(ctx context.Context) error {
			var err error
			confirmed, err = l.api.UpdateApplicationStatus(ctx, sess, applicationID, status)
			return err
		},
		restore: func(prev types.ApplicationStatus) {
			l.setStatus(applicationID, prev, status)
		},
	})
	if err != nil {
		l.log.Warn("update application status failed", "application_id", applicationID, "status", status, "error", err)
		if errors.Is(err, apierr.ErrConflict) {
			l.reloadAfterConflict(ctx, sess)
		}
		return err
	}

	if confirmed.ID == applicationID {
		l.mu.Lock()
		if i := l.indexLocked(applicationID); i >= 0 {
			if confirmed.Opportunity == nil {
				confirmed.Opportunity = l.apps[i].Opportunity
			}
			l.apps[i] = confirmed
		}
		view := l.snapshotLocked()
		l.mu.Unlock()
		l.obs.notify(view)
	}
	return nil
}

// setStatus writes status to the cached application. When only is non-empty the
// write happens only if the cached status still equals it, so a rollback never
// overwrites a newer value loaded in the meantime.
func (l *ApplicationLedger) setStatus(id uuid.UUID, status, only types.ApplicationStatus) {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 || (only != "" && l.apps[i].Status != only) {
		l.mu.Unlock()
		return
	}
	l.apps[i].Status = status
	view := l.snapshotLocked()
	l.mu.Unlock()
	l.obs.notify(view)
}

func (l *ApplicationLedger) reloadAfterConflict(ctx context.Context, sess session.Session) {
	l.mu.Lock()
	scope := l.scope
	l.mu.Unlock()
	if scope == ScopeNone {
		return
	}
	if err := l.load(ctx, sess, scope); err != nil {
		l.log.Warn("reload after conflict failed", "scope", scope, "error", err)
	}
}

func (l *ApplicationLedger) Applications() []types.Application {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *ApplicationLedger) Get(id uuid.UUID) (types.Application, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return cloneApplication(l.apps[i]), true
	}
	return types.Application{}, false
}

func (l *ApplicationLedger) Scope() LedgerScope {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scope
}

func (l *ApplicationLedger) Subscribe(fn func([]types.Application)) (unsubscribe func()) {
	return l.obs.subscribe(fn)
}

func (l *ApplicationLedger) indexLocked(id uuid.UUID) int {
	for i := range l.apps {
		if l.apps[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *ApplicationLedger) upsertLocked(app types.Application) {
	if app.ID != uuid.Nil {
		if i := l.indexLocked(app.ID); i >= 0 {
			l.apps[i] = app
			return
		}
	}
	l.apps = append(l.apps, app)
}

func (l *ApplicationLedger) snapshotLocked() []types.Application {
	out := make([]types.Application, len(l.apps))
	for i, app := range l.apps {
		out[i] = cloneApplication(app)
	}
	return out
}

func cloneApplication(app types.Application) types.Application {
	if app.MatchScore != nil {
		score := *app.MatchScore
		app.MatchScore = &score
	}
	if app.MatchDetails != nil {
		app.MatchDetails = append(datatypes.JSON(nil), app.MatchDetails...)
	}
	if app.Opportunity != nil {
		opp := *app.Opportunity
		if opp.Deadline != nil {
			d := *opp.Deadline
			opp.Deadline = &d
		}
		opp.RequiredSkills = append([]string(nil), opp.RequiredSkills...)
		opp.ResearchAreas = append([]string(nil), opp.ResearchAreas...)
		app.Opportunity = &opp
	}
	return app
}
