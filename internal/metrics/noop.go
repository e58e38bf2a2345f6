package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()      {}
func (n *NoopRecorder) IncLogin(outcome string) {}
func (n *NoopRecorder) IncContactCreated()      {}
func (n *NoopRecorder) IncContactUpdated()      {}
func (n *NoopRecorder) IncContactDeleted()      {}
