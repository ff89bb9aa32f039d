package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/pkg"

	log "github.com/sirupsen/logrus"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindStorageUnavailable Kind = "storage_unavailable"
	KindInternal           Kind = "internal"
)

const (
	msgInvalidData   = "invalid data"
	msgInternal      = "internal error"
	msgSchemaMissing = "database not configured, run the migrations"
	msgConnection    = "database connection error"
)

// Error is an error that knows how it should look on the wire.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// FieldErrors maps a request field to what is wrong with it.
type FieldErrors map[string]string

func Validation(fields FieldErrors) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: msgInvalidData,
		Details: map[string]any{"fieldErrors": fields},
	}
}

func InvalidField(field, problem string) *Error {
	return Validation(FieldErrors{field: problem})
}

func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message, Err: err}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msgInternal, Err: err}
}

// From classifies any error. Errors already carrying a Kind pass through,
// storage failures become 503, everything else is internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if pkg.IsSchemaMissingError(err) {
		return &Error{
			Kind:    KindStorageUnavailable,
			Status:  http.StatusServiceUnavailable,
			Message: msgSchemaMissing,
			Details: map[string]string{"code": "schema_missing"},
			Err:     err,
		}
	}
	if errors.Is(err, db.ErrStoreUnavailable) || pkg.IsConnectionError(err) {
		return &Error{
			Kind:    KindStorageUnavailable,
			Status:  http.StatusServiceUnavailable,
			Message: msgConnection,
			Details: map[string]string{"code": "connection"},
			Err:     err,
		}
	}

	return Internal(err)
}

// Write converts err into the error envelope. Internal and storage errors are
// logged here, the client only sees the generic message.
func Write(w http.ResponseWriter, err error) {
	apiErr := From(err)

	switch apiErr.Kind {
	case KindInternal:
		log.Errorf("internal error: %s", err)
	case KindStorageUnavailable:
		log.Warnf("storage unavailable: %s", err)
	default:
		log.Tracef("request error [%s]: %s", apiErr.Kind, err)
	}

	pkg.WriteErrorEnvelope(w, apiErr.Status, apiErr.Message, apiErr.Details)
}
