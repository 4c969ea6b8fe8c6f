package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Line    int         `json:"line,omitempty"`
	Column  int         `json:"column,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail writes err as a JSON error with a status derived from its code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}
	var se *errors.ScriptError
	if stderrors.As(err, &se) {
		body.Code = se.Code()
		body.Line, body.Column, body.Message = se.Line, se.Column, se.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": body})
}

func statusOf(err error) int {
	if stderrors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	var mbe *http.MaxBytesError
	if stderrors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	var se *errors.ScriptError
	if stderrors.As(err, &se) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidScript:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeDocumentNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
