package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/flametower/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		if status == http.StatusGatewayTimeout {
			code = errors.ErrCodeTimeout
		}
	}
	if status == http.StatusInternalServerError && code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeFileNotReady):
		return http.StatusConflict
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrCodeMethodNotAllowed):
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

func errNotFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) error {
	return errors.New(errors.ErrCodeMethodNotAllowed, "method %s not allowed on %s", r.Method, r.URL.Path)
}
