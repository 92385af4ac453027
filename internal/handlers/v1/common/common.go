// Package common holds the request plumbing shared by the v1 handlers.
package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// SessionHeader carries the caller's session token.
const SessionHeader = "X-session-ID"

// Session returns the session token or a 401 when the header was missing.
func Session(token string) (string, error) {
	if token == "" {
		return "", huma.Error401Unauthorized("missing " + SessionHeader + " header")
	}
	return token, nil
}

// Error translates an engine error into the matching HTTP status.
// Validation failures are 422, unknown references 404 and store failures 503.
func Error(msg string, err error) error {
	var validation *ledger.ValidationError
	switch {
	case errors.As(err, &validation):
		return huma.NewError(http.StatusUnprocessableEntity, msg, &huma.ErrorDetail{
			Message:  validation.Reason,
			Location: "body." + validation.Field,
		})
	case errors.Is(err, ledger.ErrValidation):
		return huma.NewError(http.StatusUnprocessableEntity, msg, err)
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, msg, err)
	case errors.Is(err, ledger.ErrStore):
		return huma.NewError(http.StatusServiceUnavailable, msg, err)
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}

// ParseID parses a UUID taken from field.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalID parses an optional UUID; the empty string is null.
func ParseOptionalID(field, raw string) (uuid.NullUUID, error) {
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := ParseID(field, raw)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func ParseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return amount, nil
}

func ParseTime(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return t, nil
}

// FormatTime renders t the way every response does.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatOptionalID renders a nullable id, empty when null.
func FormatOptionalID(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}

// Timed runs fn under a timing entry of the request's LogData.
func Timed[T any](logData *logging.LogData, name string, fn func() (T, error)) (T, error) {
	stop := logData.AddTiming(name)
	defer stop()
	return fn()
}
