package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorBody is the wire shape for every failure response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var codeStatus = map[apperr.Code]int{
	apperr.CodeValidation:    http.StatusBadRequest,
	apperr.CodeNotFound:      http.StatusNotFound,
	apperr.CodeForbidden:     http.StatusForbidden,
	apperr.CodeLimitExceeded: http.StatusForbidden,
	apperr.CodeUpstream:      http.StatusInternalServerError,
}

// writeError maps an error to its HTTP status. Upstream causes surface in
// the details field; client errors keep the message alone.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := errorBody{Error: apperr.MessageOf(err)}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Cause != nil {
		body.Details = appErr.Cause.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", string(code)), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: message})
}
