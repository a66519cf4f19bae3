package notifier

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultSubmittedFunc func(n ResultNotification) error
	SendResultConfirmedFunc func(n ResultNotification) error
	SendResultDisputedFunc  func(n ResultNotification) error

	// Call records
	SendResultSubmittedCalls []ResultNotification
	SendResultConfirmedCalls []ResultNotification
	SendResultDisputedCalls  []ResultNotification
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultSubmittedCalls = nil
	m.SendResultConfirmedCalls = nil
	m.SendResultDisputedCalls = nil
}

func (m *Mock) SendResultSubmitted(_ context.Context, n ResultNotification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultSubmittedCalls = append(m.SendResultSubmittedCalls, n)
	if m.SendResultSubmittedFunc != nil {
		return m.SendResultSubmittedFunc(n)
	}
	return nil
}

func (m *Mock) SendResultConfirmed(_ context.Context, n ResultNotification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultConfirmedCalls = append(m.SendResultConfirmedCalls, n)
	if m.SendResultConfirmedFunc != nil {
		return m.SendResultConfirmedFunc(n)
	}
	return nil
}

func (m *Mock) SendResultDisputed(_ context.Context, n ResultNotification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultDisputedCalls = append(m.SendResultDisputedCalls, n)
	if m.SendResultDisputedFunc != nil {
		return m.SendResultDisputedFunc(n)
	}
	return nil
}

// Submitted returns a copy of the recorded submitted notifications.
func (m *Mock) Submitted() []ResultNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResultNotification(nil), m.SendResultSubmittedCalls...)
}

// Confirmed returns a copy of the recorded confirmed notifications.
func (m *Mock) Confirmed() []ResultNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResultNotification(nil), m.SendResultConfirmedCalls...)
}

// Disputed returns a copy of the recorded disputed notifications.
func (m *Mock) Disputed() []ResultNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResultNotification(nil), m.SendResultDisputedCalls...)
}
