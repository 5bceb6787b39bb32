package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	Updates       prometheus.Counter
	Commands      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	ScheduledJobs prometheus.Gauge
	TaskDuration  *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Updates: f.NewCounter(prometheus.CounterOpts{
			Name: "forecastbot_updates_total",
			Help: "Total number of processed Telegram updates",
		}),
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forecastbot_commands_total",
			Help: "Total number of processed commands",
		}, []string{"command"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forecastbot_notifications_total",
			Help: "Daily notifications by outcome",
		}, []string{"result"}),
		FetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forecastbot_fetch_failures_total",
			Help: "Failed or empty upstream fetches by source",
		}, []string{"source"}),
		ScheduledJobs: f.NewGauge(prometheus.GaugeOpts{
			Name: "forecastbot_scheduled_jobs",
			Help: "Number of registered daily jobs",
		}),
		TaskDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecastbot_task_duration_seconds",
			Help:    "Duration of pool tasks",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}
}
