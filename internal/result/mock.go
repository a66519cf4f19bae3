package result

import (
	"context"
	"sync"
)

// MockBackend is a spy implementation of Backend for testing.
// It is safe for concurrent use.
type MockBackend struct {
	mu sync.Mutex

	SubmitResultFunc  func(ctx context.Context, payload Payload) error
	ConfirmResultFunc func(ctx context.Context) error
	DisputeResultFunc func(ctx context.Context, reason string) error

	SubmitResultCalls  []Payload
	ConfirmResultCalls int
	DisputeResultCalls []string
}

// NewMockBackend creates a new mock instance.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (m *MockBackend) SubmitResult(ctx context.Context, payload Payload) error {
	m.mu.Lock()
	m.SubmitResultCalls = append(m.SubmitResultCalls, payload)
	fn := m.SubmitResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, payload)
	}
	return nil
}

func (m *MockBackend) ConfirmResult(ctx context.Context) error {
	m.mu.Lock()
	m.ConfirmResultCalls++
	fn := m.ConfirmResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *MockBackend) DisputeResult(ctx context.Context, reason string) error {
	m.mu.Lock()
	m.DisputeResultCalls = append(m.DisputeResultCalls, reason)
	fn := m.DisputeResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, reason)
	}
	return nil
}

// Submissions returns the number of SubmitResult calls.
func (m *MockBackend) Submissions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitResultCalls)
}
