package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	httperrors "github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses. The
// integrity check runs before the validation check: a DataIntegrityError
// wraps the validation failure of a stored record, and must stay a 5xx.
func writeServiceError(w http.ResponseWriter, err error) {
	var integrityErr *errs.DataIntegrityError
	if errors.As(err, &integrityErr) {
		writeInternal(w, "DATA_INTEGRITY", "stored record failed validation")
		return
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})
		return
	}

	if errors.Is(err, errs.ErrDuplicateReport) {
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "DUPLICATE_REPORT",
			Message: err.Error(),
		})
		return
	}

	var notFoundErr *errs.NotFoundError
	if errors.As(err, &notFoundErr) {
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	var transitionErr *errs.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "INVALID_TRANSITION",
			Message: err.Error(),
		})
		return
	}

	var reversedErr *errs.AlreadyReversedError
	if errors.As(err, &reversedErr) {
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "ALREADY_REVERSED",
			Message: err.Error(),
		})
		return
	}

	writeInternal(w, "INTERNAL_ERROR", "internal error")
}
