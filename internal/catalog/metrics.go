package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_source_fetches_total",
			Help: "Catalog source fetch attempts by source and result.",
		},
		[]string{"source", "result"},
	)

	cacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_reads_total",
			Help: "Catalog cache reads by resource and result.",
		},
		[]string{"resource", "result"},
	)

	fallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_static_fallback_total",
			Help: "Reads answered by the bundled static dataset.",
		},
		[]string{"resource"},
	)
)

const (
	resultOK         = "ok"
	resultEmpty      = "empty"
	resultError      = "error"
	resultSkipped    = "not_configured"
	cacheHit         = "hit"
	cacheMiss        = "miss"
	resourceProducts = "products"
	resourceSettings = "settings"
)
