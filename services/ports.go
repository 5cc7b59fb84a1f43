package services

import "github.com/Dosada05/clubhub/live"

// Notifier pushes live feed messages to a room. *live.Hub implements it.
type Notifier interface {
	Publish(room, msgType string, payload interface{})
}

var _ Notifier = (*live.Hub)(nil)

// Metrics records domain counters. The prometheus implementation lives in
// package metrics.
type Metrics interface {
	BadgeAwarded(badge string)
	EnrollmentAttempt(outcome string)
	BlobRolledBack(kind string)
}

const (
	EnrollmentOutcomeOK               = "ok"
	EnrollmentOutcomeAlreadyEnrolled  = "already_enrolled"
	EnrollmentOutcomeCapacityExceeded = "capacity_exceeded"
)

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, interface{}) {}

type noopMetrics struct{}

func (noopMetrics) BadgeAwarded(string)      {}
func (noopMetrics) EnrollmentAttempt(string) {}
func (noopMetrics) BlobRolledBack(string)    {}

// NoopNotifier and NoopMetrics are for wiring without a hub or registry.
func NoopNotifier() Notifier { return noopNotifier{} }
func NoopMetrics() Metrics   { return noopMetrics{} }
