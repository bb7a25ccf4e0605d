package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "live_cache_hits_total",
		Help: "Live snapshot requests served from a fresh cache.",
	})
	liveRefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "live_refresh_cycles_total",
		Help: "Live snapshot refresh cycles attempted.",
	})
	liveUpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "live_upstream_errors_total",
		Help: "Upstream fetch failures by source.",
	}, []string{"source"})
	liveStaleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "live_stale_fallbacks_total",
		Help: "Responses served from a stale cached snapshot after all upstream calls failed.",
	})
)
