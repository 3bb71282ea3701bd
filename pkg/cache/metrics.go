package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trading_sdk_client_cache_hits_total",
			Help: "Total number of client cache hits",
		},
		[]string{"cache"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trading_sdk_client_cache_misses_total",
			Help: "Total number of client cache misses, expired entries included",
		},
		[]string{"cache"},
	)

	cacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trading_sdk_client_cache_evictions_total",
			Help: "Total number of expired entries removed by cleanup",
		},
		[]string{"cache"},
	)
)
