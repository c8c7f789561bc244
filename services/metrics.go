package services

import "github.com/prometheus/client_golang/prometheus"

var (
	autoApprovedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resources_auto_approved_total",
		Help: "Total number of resources auto-approved by the quality scorer.",
	})
	autoHiddenCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resources_auto_hidden_total",
		Help: "Total number of resources auto-hidden by the quality scorer.",
	})
	scoreRecalcErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "score_recalculations_failed_total",
		Help: "Total number of failed score recalculations (retried on next vote or reconciliation).",
	})
)

func init() {
	prometheus.MustRegister(autoApprovedCounter, autoHiddenCounter, scoreRecalcErrors)
}
