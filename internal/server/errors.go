package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depwatch/pkg/errors"
)

// MsgInternal replaces the message of errors that carry no user-facing code.
const MsgInternal = "Internal server error"

// errorResponse is the JSON body of every error response.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Path       string `json:"path"`
	Timestamp  string `json:"timestamp"`
}

// statusOf maps err to an HTTP status and a client-safe message.
func statusOf(err error) (int, string) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Dependency resolution timed out"
	case errors.GetCode(err) == "", errors.Is(err, errors.ErrCodeInternal):
		return http.StatusInternalServerError, MsgInternal
	default:
		return errors.HTTPStatus(err), errors.UserMessage(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)

	logger := s.logger.With("method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	if status >= 500 {
		logger.Error("request failed", "status", status, "err", err)
	} else {
		logger.Debug("request rejected", "status", status, "err", err)
	}

	writeJSON(w, status, errorResponse{
		StatusCode: status,
		Message:    msg,
		Code:       string(errors.GetCode(err)),
		Path:       r.URL.Path,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func errNotFound(r *http.Request) error {
	return errors.New(errors.ErrCodeRouteNotFound, "Cannot %s %s", r.Method, r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) error {
	return errors.New(errors.ErrCodeMethodNotAllowed, "Method %s not allowed on %s", r.Method, r.URL.Path)
}
