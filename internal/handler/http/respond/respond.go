// Package respond writes the JSON envelopes of the REST API.
// Successful responses are {success, data}; failures are
// {success:false, error:true, message, timestamp, details?}.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/logging"
)

// showDetails controls whether Fail includes the raw error. Off in production.
var showDetails atomic.Bool

// SetDetails enables or disables the details field of error responses.
func SetDetails(on bool) { showDetails.Store(on) }

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the body of every failed response.
type ErrorBody struct {
	Success   bool      `json:"success"`
	Error     bool      `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// OK writes {success:true, data}.
func OK(w http.ResponseWriter, code int, data any) {
	JSON(w, code, Envelope{Success: true, Data: data})
}

// Message writes {success:true, message}.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, Envelope{Success: true, Message: msg})
}

// Error writes an error envelope with an explicit status and user-facing message.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Message: msg, Error: true, Timestamp: time.Now().UTC()})
}

// StatusFor maps the domain error taxonomy to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes the error envelope for err using StatusFor.
// 5xx causes are logged and replaced with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	FailWithStatus(w, r, StatusFor(err), err)
}

// FailWithStatus is Fail with a caller-chosen status.
func FailWithStatus(w http.ResponseWriter, r *http.Request, code int, err error) {
	if err == nil {
		return
	}
	body := ErrorBody{Error: true, Timestamp: time.Now().UTC(), Message: userMessage(err)}
	if code >= http.StatusInternalServerError {
		body.Message = "internal server error"
		// 機密情報をマスクしてログ出力
		logger := slog.Default()
		if r != nil {
			logger = logging.WithRequestID(r.Context(), logging.FromContext(r.Context()))
		}
		logger.Error("internal server error",
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
	}
	if showDetails.Load() {
		body.Details = SanitizeError(err)
	}
	JSON(w, code, body)
}

func userMessage(err error) string {
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return ve.Field + " " + ve.Message
	}
	var ke *entity.KindError
	if errors.As(err, &ke) {
		return ke.Message
	}
	return err.Error()
}
