// Package response provides the JSON envelope written by every API endpoint.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	domainerrors "github.com/listenupapp/bookshelf-server/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// JSON writes an envelope with the given status code.
func JSON(w http.ResponseWriter, code int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful response (200 OK).
func Success(w http.ResponseWriter, message string, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data}, logger)
}

// Created writes a created response (201 Created).
func Created(w http.ResponseWriter, message string, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, Envelope{Status: StatusSuccess, Message: message, Data: data}, logger)
}

// Fail writes a client error response. 5xx codes are reported with the error status.
func Fail(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	status := StatusFail
	if code >= http.StatusInternalServerError {
		status = StatusError
	}
	JSON(w, code, Envelope{Status: status, Message: message}, logger)
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, http.StatusBadRequest, message, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, http.StatusNotFound, message, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, http.StatusMethodNotAllowed, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Fail(w, http.StatusInternalServerError, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors are mapped to their HTTP codes, unknown errors become 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		code := domainErr.HTTPStatus()
		message := domainErr.Message
		if code >= http.StatusInternalServerError {
			if logger != nil {
				logger.Error("Request failed", "error", err)
			}
			message = "internal server error"
		}
		Fail(w, code, message, logger)
		return
	}

	// Unknown error = 500
	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}
