package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are declared spread across the files of this package; each file
// enqueues its own in init(). Nothing reaches the default registry until main
// calls MustRegister, so tests can import this package freely.
var (
	regMu   sync.Mutex
	pending []prometheus.Collector
	flushed bool
)

func enqueue(cs ...prometheus.Collector) {
	regMu.Lock()
	pending = append(pending, cs...)
	regMu.Unlock()
}

// MustRegister flushes every enqueued collector into the default Prometheus
// registry. Safe to call more than once; only the first call registers.
func MustRegister() {
	regMu.Lock()
	defer regMu.Unlock()
	if flushed {
		return
	}
	flushed = true
	prometheus.MustRegister(pending...)
	pending = nil
}

// norm keeps label values lowercase and trimmed so callers cannot split a
// series by casing accidents.
func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
