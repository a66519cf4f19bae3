package comments

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockBackend is a spy implementation of Backend for testing. Without
// override funcs it behaves like a small in-memory store.
type MockBackend struct {
	mu     sync.Mutex
	nextID int

	CreateCommentFunc func(ctx context.Context, text string) (Entry, error)
	UpdateCommentFunc func(ctx context.Context, id, text string) (Entry, error)
	DeleteCommentFunc func(ctx context.Context, id string) error

	AuthorID           string
	CreateCommentCalls []string
	UpdateCommentCalls []struct {
		ID   string
		Text string
	}
	DeleteCommentCalls []string
}

// NewMockBackend creates a mock that stamps new entries with authorID.
func NewMockBackend(authorID string) *MockBackend {
	return &MockBackend{AuthorID: authorID}
}

func (m *MockBackend) CreateComment(ctx context.Context, text string) (Entry, error) {
	m.mu.Lock()
	m.CreateCommentCalls = append(m.CreateCommentCalls, text)
	fn := m.CreateCommentFunc
	m.nextID++
	id := fmt.Sprintf("c%d", m.nextID)
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, text)
	}
	now := time.Now()
	return Entry{ID: id, AuthorID: m.AuthorID, Text: text, CreatedAt: now, UpdatedAt: now}, nil
}

func (m *MockBackend) UpdateComment(ctx context.Context, id, text string) (Entry, error) {
	m.mu.Lock()
	m.UpdateCommentCalls = append(m.UpdateCommentCalls, struct {
		ID   string
		Text string
	}{id, text})
	fn := m.UpdateCommentFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, text)
	}
	return Entry{ID: id, AuthorID: m.AuthorID, Text: text, UpdatedAt: time.Now()}, nil
}

func (m *MockBackend) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteCommentCalls = append(m.DeleteCommentCalls, id)
	fn := m.DeleteCommentFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil
}
