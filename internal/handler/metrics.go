package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_searches_total",
			Help: "Total number of map searches by outcome.",
		},
		[]string{"outcome"},
	)

	catchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_catch_attempts_total",
			Help: "Total number of catch attempts by result.",
		},
		[]string{"result"},
	)

	battlesResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_battles_resolved_total",
		Help: "Total number of resolved battles.",
	})
)
