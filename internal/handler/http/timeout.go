package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"inkwell/internal/handler/http/respond"
)

// Timeout bounds each request at d. When the deadline passes first the client
// gets a 500 envelope, the request context is canceled so storage calls abort,
// and any later writes from the handler are dropped.
// A handler panic is re-raised on the serving goroutine so Recover sees it.
// d <= 0 disables the limit.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				if gw.expire() {
					respond.Error(w, http.StatusInternalServerError, "request timeout")
				}
			}
		})
	}
}

// guardedWriter serializes the handler's writes against the timeout reply.
type guardedWriter struct {
	http.ResponseWriter

	mu      sync.Mutex
	expired bool
	started bool
}

// expire marks the writer dead and reports whether nothing was sent yet.
func (g *guardedWriter) expire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = true
	return !g.started
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired || g.started {
		return
	}
	g.started = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	g.started = true
	return g.ResponseWriter.Write(p)
}
