package service

import (
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// Metric outcomes
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type serviceMetrics struct {
	registrations     *telemetry.Counter
	paymentsConfirmed *telemetry.Counter
	webhookEvents     *telemetry.Counter
	webhookDuration   *telemetry.Histogram
}

// newServiceMetrics creates the instruments on the current global meter.
// An instrument that fails to register stays nil and is skipped.
func newServiceMetrics() *serviceMetrics {
	m := &serviceMetrics{}
	m.registrations, _ = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "registrations_total",
		Description: "Contestant registrations by outcome",
		Unit:        "{registration}",
	})
	m.paymentsConfirmed, _ = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payments_confirmed_total",
		Description: "Contestants moved from unpaid to paid",
		Unit:        "{payment}",
	})
	m.webhookEvents, _ = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "webhook_events_total",
		Description: "Payment webhook deliveries by outcome",
		Unit:        "{event}",
	})
	m.webhookDuration, _ = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "webhook_processing_seconds",
		Description: "Time spent handling one payment webhook delivery",
		Unit:        "s",
	})
	return m
}
