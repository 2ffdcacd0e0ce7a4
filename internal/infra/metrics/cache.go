package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { enqueue(cacheRequestsTotal) }

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Cache lookups by cache name and hit/miss result.",
	},
	[]string{"cache", "result"},
)

// IncCacheRequest records one lookup against a named cache; result is
// "hit" or "miss".
func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
