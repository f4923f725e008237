package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request id; the client gets the
// core.MapError message, as JSON for API clients or as an alert fragment
// for HTMX requests.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/conventory/internal/core"
	"github.com/JonMunkholm/conventory/internal/logging"
	"github.com/JonMunkholm/conventory/internal/web/templates"
)

// ErrorResponse is the JSON body of every error response. Result carries
// the partial outcome of an aborted import.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Action  string             `json:"action,omitempty"`
	Code    string             `json:"code"`
	Result  *core.ImportResult `json:"result,omitempty"`
}

// statusFor picks the HTTP status for an operation error.
func statusFor(err error) int {
	var parseErr *core.ParseError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message with the status
// derived from err.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorStatus(w, r, err, statusFor(err), nil)
}

func respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int, partial *core.ImportResult) {
	msg := core.MapError(err)
	if errors.As(err, new(*http.MaxBytesError)) {
		msg = core.MapError(core.ErrFileTooLarge)
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if isHTMX(r) {
		renderErrorPartial(w, r, msg, status, partial)
		return
	}
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Result:  partial,
	})
}

// respondUserError writes msg without an underlying error, for rejections
// decided by the web layer itself.
func respondUserError(w http.ResponseWriter, r *http.Request, status int, msg core.UserMessage) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
	)
	if isHTMX(r) {
		renderErrorPartial(w, r, msg, status, nil)
		return
	}
	writeJSON(w, status, ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code})
}

func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int, partial *core.ImportResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
		return
	}
	if partial != nil {
		if err := templates.ImportReport(partial).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render import report", "error", err)
		}
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
