package license

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldnote_license_checks_total",
			Help: "Total entitlement checks by resulting fallback level",
		},
		[]string{"fallback_level"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldnote_license_cache_lookups_total",
			Help: "Status cache lookups by outcome",
		},
		[]string{"outcome"}, // hit, miss, error
	)

	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldnote_license_fetches_total",
			Help: "Remote verification calls by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	lockContentionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldnote_license_lock_contention_total",
			Help: "Entitlement checks that skipped fetching because a peer held the fetch lock",
		},
	)
)

func recordCheck(level FallbackLevel)  { checksTotal.WithLabelValues(string(level)).Inc() }
func recordCacheLookup(outcome string) { cacheLookupsTotal.WithLabelValues(outcome).Inc() }
func recordFetch(outcome string)       { fetchesTotal.WithLabelValues(outcome).Inc() }
func recordLockContention()            { lockContentionTotal.Inc() }
