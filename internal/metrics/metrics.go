// Package metrics exposes Prometheus counters for the session and growth
// pipeline. All metrics are registered on the default registry and served
// at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_wifi_sessions_started_total",
		Help: "WiFi sessions opened.",
	})

	SessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_wifi_sessions_ended_total",
		Help: "WiFi sessions closed.",
	})

	HoursAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_wifi_hours_awarded_total",
		Help: "Whole lifetime hours credited at session end.",
	})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_points_awarded_total",
		Help: "Attendance points credited at session end.",
	})

	TreesGrown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_trees_grown_total",
		Help: "Tree growth fan-out applications.",
	})

	TreesRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unitree_trees_redeemed_total",
		Help: "Trees redeemed for points.",
	})
)
