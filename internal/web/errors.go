package web

// errors.go turns handler errors into JSON error responses.
//
// Every error is:
//   - logged with the technical detail and the request ID
//   - mapped via core.MapError to a message, an action and a code
//   - sent with a status derived from the error identity
//
// Client errors (4xx) also carry the technical detail, which names the
// offending line or parameter and never contains server internals.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/genesis/internal/core"
	"github.com/JonMunkholm/genesis/internal/logging"
	"github.com/JonMunkholm/genesis/internal/store"
)

var (
	// errInvalidParam maps to REQ004.
	errInvalidParam = errors.New("invalid parameter")

	// errEmptyInput maps to INPUT002.
	errEmptyInput = errors.New("empty input")

	// errStoreDisabled maps to TBL002.
	errStoreDisabled = errors.New("store disabled")
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidOptions),
		errors.Is(err, errInvalidParam),
		errors.Is(err, errEmptyInput),
		errors.Is(err, store.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsParseError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyParses),
		errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errStoreDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as an ErrorResponse.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if status < http.StatusInternalServerError {
		resp.Detail = err.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
