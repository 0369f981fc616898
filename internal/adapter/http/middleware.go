package httpadapter

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"traffic-analyzer/internal/core/port"
)

// basicAuth rejects requests whose Basic credentials the verifier refuses.
func (h *Handler) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w, h.logger)
			return
		}
		if err := h.verifier.Verify(r.Context(), email, password); err != nil {
			if !errors.Is(err, port.ErrInvalidCredentials) {
				h.logger.Error("verify credentials", slog.Any("error", err))
			}
			unauthorized(w, h.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("WWW-Authenticate", `Basic realm="traffic-analyzer"`)
	writeError(w, logger, http.StatusUnauthorized, "authentication required")
}

// rateLimit answers 429 once the message limiter runs out of tokens.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil {
			res := h.limiter.Reserve()
			if delay := res.Delay(); !res.OK() || delay > 0 {
				res.Cancel()
				if res.OK() {
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				}
				writeError(w, h.logger, http.StatusTooManyRequests, "too many messages, try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request count and latency by route pattern.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		h.metrics.ObserveRequest(route, r.Method, code, time.Since(start))
	})
}
