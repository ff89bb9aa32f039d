package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/pkg"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	errWorkoutMissing := errors.New("workout missing")

	testCases := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
	}{
		{
			name:       "validation",
			err:        InvalidField("day", "must be one of SEG, QUA, SEX"),
			wantKind:   KindValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("handler: %w", NotFound("workout not found", errWorkoutMissing)),
			wantKind:   KindNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict",
			err:        Conflict("workout already completed", nil),
			wantKind:   KindConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing table",
			err:        fmt.Errorf("select: %w", &pgconn.PgError{Code: "42P01"}),
			wantKind:   KindStorageUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "store down",
			err:        fmt.Errorf("%w: dial tcp", db.ErrStoreUnavailable),
			wantKind:   KindStorageUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "anything else",
			err:        errors.New("nil pointer somewhere"),
			wantKind:   KindInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := From(tc.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tc.wantKind, apiErr.Kind)
			assert.Equal(t, tc.wantStatus, apiErr.Status)
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("record not found")
	err := NotFound("workout not found", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "workout not found: record not found", err.Error())
	assert.Equal(t, "invalid data", Validation(nil).Error())
}

func TestWrite(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, InvalidField("weekNumber", "must be between 1 and 4"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env pkg.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid data", env.Error.Message)
	assert.Equal(t,
		map[string]any{"fieldErrors": map[string]any{"weekNumber": "must be between 1 and 4"}},
		env.Error.Details,
	)
}

func TestWrite_InternalHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, errors.New("secret table layout leaked"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":{"message":"internal error"}}`, w.Body.String())
}

func TestWrite_StorageUnavailable(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, errors.New("no such table: exercises"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":{"message":"database not configured, run the migrations","details":{"code":"schema_missing"}}}`,
		w.Body.String(),
	)
}
