// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(outcome string) // outcome: LoginSuccess or LoginFailure

	// Contact management metrics
	IncContactCreated()
	IncContactUpdated()
	IncContactDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
