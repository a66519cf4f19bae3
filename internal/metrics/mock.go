package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	resultsSubmitted   map[string]int
	resultActions      map[string]int
	validationFailures map[string]int
	backendFailures    map[string]int
	inFlightRejected   map[string]int
	commentsWritten    map[string]int
	actionDurations    map[string][]float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		resultsSubmitted:   make(map[string]int),
		resultActions:      make(map[string]int),
		validationFailures: make(map[string]int),
		backendFailures:    make(map[string]int),
		inFlightRejected:   make(map[string]int),
		commentsWritten:    make(map[string]int),
		actionDurations:    make(map[string][]float64),
	}
}

func (m *Mock) IncResultsSubmitted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsSubmitted[kind]++
}

func (m *Mock) IncResultActions(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultActions[action]++
}

func (m *Mock) IncValidationFailures(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures[reason]++
}

func (m *Mock) IncBackendFailures(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backendFailures[action]++
}

func (m *Mock) IncInFlightRejected(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlightRejected[action]++
}

func (m *Mock) IncCommentsWritten(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commentsWritten[op]++
}

func (m *Mock) ObserveActionDuration(action string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionDurations[action] = append(m.actionDurations[action], seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ResultsSubmitted returns how often IncResultsSubmitted was called for kind.
func (m *Mock) ResultsSubmitted(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsSubmitted[kind]
}

// ResultActions returns how often IncResultActions was called for action.
func (m *Mock) ResultActions(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultActions[action]
}

// ValidationFailures returns how often IncValidationFailures was called for reason.
func (m *Mock) ValidationFailures(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures[reason]
}

// BackendFailures returns how often IncBackendFailures was called for action.
func (m *Mock) BackendFailures(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backendFailures[action]
}

// InFlightRejected returns how often IncInFlightRejected was called for action.
func (m *Mock) InFlightRejected(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlightRejected[action]
}

// CommentsWritten returns how often IncCommentsWritten was called for op.
func (m *Mock) CommentsWritten(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commentsWritten[op]
}

// ActionDurations returns the durations observed for action.
func (m *Mock) ActionDurations(action string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.actionDurations[action]...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
