package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	LoginsSucceeded uint64
	LoginsFailed    uint64
	ContactsCreated uint64
	ContactsUpdated uint64
	ContactsDeleted uint64
}

// InMemoryRecorder keeps counters in process memory. It backs the /metrics
// endpoint and is safe for concurrent use.
type InMemoryRecorder struct {
	usersRegistered atomic.Uint64
	loginsSucceeded atomic.Uint64
	loginsFailed    atomic.Uint64
	contactsCreated atomic.Uint64
	contactsUpdated atomic.Uint64
	contactsDeleted atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered: m.usersRegistered.Load(),
		LoginsSucceeded: m.loginsSucceeded.Load(),
		LoginsFailed:    m.loginsFailed.Load(),
		ContactsCreated: m.contactsCreated.Load(),
		ContactsUpdated: m.contactsUpdated.Load(),
		ContactsDeleted: m.contactsDeleted.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin increments the login counter for outcome.
// Unknown outcomes count as failures.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	if outcome == LoginSuccess {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncContactCreated increments contact created counter.
func (m *InMemoryRecorder) IncContactCreated() {
	m.contactsCreated.Add(1)
}

// IncContactUpdated increments contact updated counter.
func (m *InMemoryRecorder) IncContactUpdated() {
	m.contactsUpdated.Add(1)
}

// IncContactDeleted increments contact deleted counter.
func (m *InMemoryRecorder) IncContactDeleted() {
	m.contactsDeleted.Add(1)
}
