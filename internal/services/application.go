package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type SubmitApplicationInput struct {
	OpportunityID uuid.UUID
	CoverLetter   string
	MatchScore    *float64
	MatchDetails  datatypes.JSON
}

type ApplicationService interface {
	Submit(ctx context.Context, in SubmitApplicationInput) (*types.Application, error)
	ListMine(ctx context.Context) ([]*types.Application, error)
	// ListForMentor returns applications to opportunities the caller owns.
	ListForMentor(ctx context.Context) ([]*types.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*types.Application, error)
}

type applicationService struct {
	db          *gorm.DB
	log         *logger.Logger
	notify      EngagementNotifier
	opportunity repos.OpportunityRepo
	application repos.ApplicationRepo
}

func NewApplicationService(db *gorm.DB, log *logger.Logger, r repos.Set, notify EngagementNotifier) ApplicationService {
	if notify == nil {
		notify = NewEngagementNotifier(nil)
	}
	return &applicationService{
		db:          db,
		log:         logger.OrNop(log).With("service", "ApplicationService"),
		notify:      notify,
		opportunity: r.Opportunity,
		application: r.Application,
	}
}

func (s *applicationService) Submit(ctx context.Context, in SubmitApplicationInput) (*types.Application, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if in.OpportunityID == uuid.Nil {
		return nil, errValidation("opportunity_id is required")
	}
	letter := strings.TrimSpace(in.CoverLetter)
	if letter == "" {
		return nil, errValidation("cover letter is required")
	}

	opp, err := s.opportunity.GetByID(ctx, nil, in.OpportunityID)
	if err != nil {
		return nil, mapDBError("load opportunity", err)
	}
	if opp == nil {
		return nil, errNotFound("opportunity")
	}
	if !opp.IsOpen {
		return nil, errValidation("this opportunity is no longer accepting applications")
	}
	if opp.Deadline != nil && opp.Deadline.Before(time.Now()) {
		return nil, errValidation("the application deadline has passed")
	}

	exists, err := s.application.Exists(ctx, nil, rd.UserID, opp.ID)
	if err != nil {
		return nil, mapDBError("check application", err)
	}
	if exists {
		return nil, errDuplicateApplication()
	}

	app := &types.Application{
		OpportunityID: opp.ID,
		StudentID:     rd.UserID,
		CoverLetter:   letter,
		MatchScore:    in.MatchScore,
		MatchDetails:  in.MatchDetails,
		Status:        types.ApplicationSubmitted,
	}
	created, err := s.application.Create(ctx, nil, app)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errDuplicateApplication()
		}
		return nil, mapDBError("create application", err)
	}
	created.Opportunity = opp
	s.log.Info("Application submitted", "student_id", rd.UserID, "opportunity_id", opp.ID)
	s.notify.ApplicationSubmitted(ctx, opp.MentorID, created)
	return created, nil
}

func (s *applicationService) ListMine(ctx context.Context) ([]*types.Application, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.application.ListByStudent(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListForMentor(ctx context.Context) ([]*types.Application, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !isMentor(rd) {
		return nil, errForbidden("only mentors can review applications")
	}
	apps, err := s.application.ListByMentor(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("list applications", err)
	}
	return apps, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*types.Application, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !isMentor(rd) {
		return nil, errForbidden("only mentors can change application status")
	}
	status = types.ApplicationStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, errValidation("unknown application status")
	}

	var (
		out     *types.Application
		changed bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.application.GetByID(ctx, tx, id)
		if err != nil {
			return mapDBError("load application", err)
		}
		if app == nil || app.Opportunity == nil {
			return errNotFound("application")
		}
		if app.Opportunity.MentorID != rd.UserID && rd.Role != "admin" {
			return errNotFound("application")
		}
		if !app.Status.CanTransition(status) {
			return errInvalidTransition("cannot move application from " + string(app.Status) + " to " + string(status))
		}
		if app.Status != status {
			if err := s.application.UpdateStatus(ctx, tx, app.ID, status); err != nil {
				return mapDBError("update application", err)
			}
			app.Status = status
			changed = true
		}
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Application status updated", "application_id", id, "status", status)
	if changed {
		s.notify.ApplicationStatusChanged(ctx, out)
	}
	return out, nil
}
