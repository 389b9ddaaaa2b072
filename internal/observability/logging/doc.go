// Package logging builds slog loggers from LOG_LEVEL and LOG_FORMAT and
// threads request_id and trace_id into per-request loggers.
//
//	slog.SetDefault(logging.NewLogger())
//
//	func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    log := logging.WithRequestID(r.Context(), slog.Default())
//	    log.Info("search", slog.String("q", q))
//	}
//
// Attributes named password, token, secret or authorization are redacted.
package logging
