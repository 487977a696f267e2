package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	idempotencyCacheTTL = 24 * time.Hour
	idempotencyLockTTL  = 10 * time.Second
	idempotencyPrefix   = "idempotency:"
	lockPrefix          = "lock:"
)

type bufferingWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (bw *bufferingWriter) WriteHeader(code int) {
	bw.statusCode = code
	bw.ResponseWriter.WriteHeader(code)
}

func (bw *bufferingWriter) Write(b []byte) (int, error) {
	bw.body.Write(b)
	return bw.ResponseWriter.Write(b)
}

// Idempotency caches successful responses to mutating requests keyed by the
// Idempotency-Key header, so a retried approval or enrollment returns the
// recorded result instead of running twice. Requests without the header pass
// through; a nil client disables the middleware entirely.
func Idempotency(rdb *redis.Client, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.Background()
			cacheKey := idempotencyPrefix + key
			lockKey := lockPrefix + key

			cached, err := rdb.Get(ctx, cacheKey).Result()
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Hit", "true")
				w.Write([]byte(cached))
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "processing", idempotencyLockTTL).Result()
			if err != nil {
				logger.Error().Err(err).Msg("Idempotency lock acquisition failed")
				respondWithError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
				return
			}
			if !acquired {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error:   "conflict",
					Message: "A request with this idempotency key is currently being processed",
				})
				return
			}
			defer func() {
				if err := rdb.Del(ctx, lockKey).Err(); err != nil {
					logger.Warn().Err(err).Msg("Failed to release idempotency lock")
				}
			}()

			wrapped := &bufferingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			if wrapped.statusCode >= 200 && wrapped.statusCode < 300 {
				if err := rdb.Set(ctx, cacheKey, wrapped.body.String(), idempotencyCacheTTL).Err(); err != nil {
					logger.Warn().Err(err).Str("key", key).Msg("Failed to cache idempotent response")
				}
			}
		})
	}
}
