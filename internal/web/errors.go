package web

// errors.go turns handler errors into JSON responses. The technical error
// is logged with the request id; the client gets the mapped user message
// and its code.

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/labnorm/internal/core"
	"github.com/JonMunkholm/labnorm/internal/logging"
)

var (
	errNoFile         = errors.New("no file provided")
	errFileTooLarge   = errors.New("file too large")
	errResultNotFound = errors.New("result not found")
	errRateLimited    = errors.New("rate limit exceeded")
	errBadRequest     = errors.New("invalid request body")
)

// ErrorResponse is the JSON body of every API error. Error is the
// formatted "Message (Code: XXX). Action" line.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	level := logger.Warn
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		level = logger.Error
	}
	level("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   core.FormatUserError(err),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
