package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Message: msg, Status: status}})
}

// statusFor maps a service error kind to an HTTP status and the message
// shown to the client. Internal causes are never shown.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "invalid username/password"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// fail writes err to the client and logs what the client does not see.
func (s *HTTPServer) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error(ctx, "request failed", "error", err, "request_id", middleware.GetReqID(ctx))
	case status == http.StatusUnauthorized:
		s.logger.Warn(ctx, "authentication failed", "error", err, "request_id", middleware.GetReqID(ctx))
	}
	writeError(w, status, msg)
}
