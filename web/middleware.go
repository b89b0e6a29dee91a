package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/esmc/chaos/domain/ratelimit"
)

// HeaderAPIKey carries the raw API key on mutating requests.
const HeaderAPIKey = "X-API-Key"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// keyIDHeader hands the authenticated key ID from authenticate to rateLimit.
// Incoming values are stripped so clients cannot spoof it.
const keyIDHeader = "X-Chaos-Key-ID"

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del(keyIDHeader)
		if !h.authEnabled || h.keys == nil {
			next.ServeHTTP(w, r)
			return
		}

		rawKey := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
		if rawKey == "" {
			if h.metrics != nil {
				h.metrics.AuthFailures.WithLabelValues("missing_key").Inc()
			}
			writeError(w, http.StatusUnauthorized, "missing_api_key", "set "+HeaderAPIKey)
			return
		}

		res := h.keys.Authenticate(r.Context(), rawKey)
		if !res.Valid {
			if h.metrics != nil {
				h.metrics.AuthFailures.WithLabelValues(res.Reason).Inc()
			}
			writeError(w, http.StatusUnauthorized, res.Reason, "api key rejected")
			return
		}

		r.Header.Set(keyIDHeader, res.Key.ID)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limitEnabled || h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		keyID := r.Header.Get(keyIDHeader)
		if keyID == "" {
			keyID = "anonymous"
		}

		result := h.limiter.Allow(keyID)
		if !result.Allowed {
			if h.metrics != nil {
				h.metrics.RateLimitHits.WithLabelValues(keyID).Inc()
			}
			retry := ratelimit.RetryAfter(result, h.clock.Now())
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, result.Reason, "invocation rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
