// Package metrics defines and registers the custom Prometheus metrics of the
// storage tracker. It is the single source of truth for metric names, labels
// and help strings. All metrics register with the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storage_tracker"

// ── Inventory metrics ─────────────────────────────────────────────────────────

// InventoryMutationsTotal counts successful inventory changes.
// Label:
//   - operation: add, remove, update, increase, decrease, activity
var InventoryMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_mutations_total",
		Help:      "Total number of inventory mutations applied, by operation.",
	},
	[]string{"operation"},
)

// InventoryNotFoundTotal counts mutations that referenced an unknown item.
var InventoryNotFoundTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_not_found_total",
		Help:      "Total number of mutations ignored because the item id was unknown.",
	},
	[]string{"operation"},
)

// InventoryItems tracks the current size of the item collection.
var InventoryItems = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_items",
		Help:      "Current number of stored items.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionAttemptsTotal counts login and registration attempts.
// Labels:
//   - kind: "login" or "register"
//   - result: "success", "invalid_credentials", "user_exists" or "error"
var SessionAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_attempts_total",
		Help:      "Total number of login and registration attempts, by result.",
	},
	[]string{"kind", "result"},
)

// ── Persistence metrics ───────────────────────────────────────────────────────

// StorageWritesTotal counts debounced durable-storage writes.
// Labels:
//   - key: the storage key written
//   - result: "ok" or "error"
var StorageWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_writes_total",
		Help:      "Total number of durable storage writes, by key and result.",
	},
	[]string{"key", "result"},
)

// StorageWriteDuration measures how long a single durable write takes.
var StorageWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_write_duration_seconds",
		Help:      "Duration of durable storage writes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"key"},
)

// ObserveWrite records one durable write. It matches queue.WriteObserver.
func ObserveWrite(key string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StorageWritesTotal.WithLabelValues(key, result).Inc()
	StorageWriteDuration.WithLabelValues(key).Observe(took.Seconds())
}
