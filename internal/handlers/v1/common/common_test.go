package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	return statusErr.GetStatus()
}

// -- Session --

func TestSession_Missing(t *testing.T) {
	_, err := Session("")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestSession_Present(t *testing.T) {
	session, err := Session("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", session)
}

// -- Error --

func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ledger.ValidationError{Field: "amount", Reason: "must be at least 1"}, http.StatusUnprocessableEntity},
		{"not found", ledger.NotFoundError("category", uuid.Must(uuid.NewV4())), http.StatusNotFound},
		{"store", ledger.StoreError("insert", errors.New("connection reset")), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusOf(t, Error("failed", tc.err)))
		})
	}
}

// -- Parsing --

func TestParseOptionalID(t *testing.T) {
	id, err := ParseOptionalID("categoryID", "")
	require.NoError(t, err)
	assert.False(t, id.Valid)

	want := uuid.Must(uuid.NewV4())
	id, err = ParseOptionalID("categoryID", want.String())
	require.NoError(t, err)
	assert.True(t, id.Valid)
	assert.Equal(t, want, id.UUID)

	_, err = ParseOptionalID("categoryID", "nope")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("amount", "12,50")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestParseTime_RoundTrip(t *testing.T) {
	parsed, err := ParseTime("date", "2024-03-01T12:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:30:00Z", FormatTime(parsed))
}

func TestFormatOptionalID_Null(t *testing.T) {
	assert.Equal(t, "", FormatOptionalID(uuid.NullUUID{}))
}

func TestTimed_RecordsEntry(t *testing.T) {
	logData := logging.NewLogData(logrus.New())
	got, err := Timed(logData, "lookupMs", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Contains(t, logData.Log().Data, "lookupMs")
}
