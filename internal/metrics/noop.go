package metrics

// NoopRecorder discards all observations. Used by tests and when metrics
// are disabled.
type NoopRecorder struct{}

var _ Recorder = (*NoopRecorder)(nil)

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordProvision(string)            {}
func (*NoopRecorder) RecordTeardown(string)             {}
func (*NoopRecorder) RecordReconcileRun(_, _, _, _ int) {}
func (*NoopRecorder) ObserveProvisionDuration(float64)  {}
