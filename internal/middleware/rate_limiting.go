package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/2beens/mmtreino/internal/telemetry/metrics"
	"github.com/2beens/mmtreino/internal/visitor"
	"github.com/2beens/mmtreino/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit caps write requests per visitor. Reads are never limited. When
// the limiter itself fails the request goes through, the limiter being an
// optional guard in front of the store.
func RateLimit(
	rateLimiter RequestRateLimiter,
	metricsManager *metrics.Manager,
	keyPrefix string,
	allowedPerMin int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				keyPrefix+":"+limitKey(r),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Warnf("rate limiter: %s", err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			metricsManager.CounterRateLimitedRequests.Inc()
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			pkg.WriteErrorEnvelope(w, http.StatusTooManyRequests, "too many requests", map[string]int{
				"retryAfterSeconds": retryAfter,
			})
		})
	}
}

func limitKey(r *http.Request) string {
	if id, err := visitor.IDFromContext(r.Context()); err == nil {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
