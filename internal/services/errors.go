package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
)

// Service errors are *apierr.Error values with Status set, so the HTTP layer can
// write them without another mapping table.

func errValidation(msg string) error {
	return &apierr.Error{Kind: apierr.KindValidation, Status: http.StatusBadRequest, Code: apierr.CodeValidation, Message: msg}
}

func errNotFound(what string) error {
	return &apierr.Error{Kind: apierr.KindConflict, Status: http.StatusNotFound, Code: apierr.CodeNotFound, Message: what + " not found"}
}

func errInvalidTransition(msg string) error {
	return &apierr.Error{Kind: apierr.KindConflict, Status: http.StatusConflict, Code: apierr.CodeInvalidTransition, Message: msg}
}

func errForbidden(msg string) error {
	return &apierr.Error{Kind: apierr.KindAuth, Status: http.StatusForbidden, Code: apierr.CodeForbidden, Message: msg}
}

func errUnauthorized() error {
	return &apierr.Error{Kind: apierr.KindAuth, Status: http.StatusUnauthorized, Code: apierr.CodeUnauthorized, Message: "missing or invalid token"}
}

func errDuplicateApplication() error {
	return &apierr.Error{
		Kind:    apierr.KindDuplicateApplication,
		Status:  http.StatusBadRequest,
		Code:    apierr.CodeDuplicateApplication,
		Message: "You have already applied to this opportunity",
	}
}

func errInternal(op string, err error) error {
	return &apierr.Error{Kind: apierr.KindNetwork, Status: http.StatusInternalServerError, Code: apierr.CodeInternal, Message: op + " failed", Err: err}
}

// mapDBError turns a persistence failure into a service error.
func mapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errNotFound(op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &apierr.Error{Kind: apierr.KindNetwork, Status: http.StatusServiceUnavailable, Code: apierr.CodeInternal, Message: op + " timed out", Err: err}
	}
	return errInternal(op, err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23505") ||
		strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// caller returns the authenticated identity attached by the auth middleware.
func caller(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errUnauthorized()
	}
	return rd, nil
}

func isMentor(rd *ctxutil.RequestData) bool {
	return rd.Role == "mentor" || rd.Role == "admin"
}
