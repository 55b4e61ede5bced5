package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/repository"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// MockRepository implements the SessionRepository interface for testing
type MockRepository struct {
	mu               sync.RWMutex
	sessions         map[string]*types.WorkSession
	createCallCount  int
	updateCallCount  int
	deleteCallCount  int
	getCallCount     int
	listCallCount    int
	transactionCalls int
	shouldFailCreate bool
	shouldFailUpdate bool
	shouldFailDelete bool
	shouldFailGet    bool
	shouldFailList   bool
	shouldFailTx     bool
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		sessions: make(map[string]*types.WorkSession),
	}
}

// SetFailureModes configures the mock to simulate failures
func (m *MockRepository) SetFailureModes(create, update, del, get, list, tx bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailCreate = create
	m.shouldFailUpdate = update
	m.shouldFailDelete = del
	m.shouldFailGet = get
	m.shouldFailList = list
	m.shouldFailTx = tx
}

// GetCallCounts returns the number of times each method was called
func (m *MockRepository) GetCallCounts() (create, update, del, get, list, tx int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.createCallCount, m.updateCallCount, m.deleteCallCount, m.getCallCount, m.listCallCount, m.transactionCalls
}

// StoredSession returns a copy of a session as the mock holds it
func (m *MockRepository) StoredSession(id string) *types.WorkSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id].Clone()
}

// CreateSession implements SessionRepository interface
func (m *MockRepository) CreateSession(ctx context.Context, session *types.WorkSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCallCount++

	if m.shouldFailCreate {
		return trackererrors.NewTrackerError("CreateSession", fmt.Errorf("mock create failure"), trackererrors.ErrCodeConnection)
	}
	if _, exists := m.sessions[session.ID]; exists {
		return trackererrors.NewTrackerError("CreateSession", fmt.Errorf("duplicate id"), trackererrors.ErrCodeDuplicate)
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

// UpdateSession implements SessionRepository interface
func (m *MockRepository) UpdateSession(ctx context.Context, session *types.WorkSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCallCount++

	if m.shouldFailUpdate {
		return trackererrors.NewTrackerError("UpdateSession", fmt.Errorf("mock update failure"), trackererrors.ErrCodeConnection)
	}
	if _, exists := m.sessions[session.ID]; !exists {
		return trackererrors.NewTrackerError("UpdateSession", fmt.Errorf("not found"), trackererrors.ErrCodeNotFound)
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

// DeleteSession implements SessionRepository interface
func (m *MockRepository) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCallCount++

	if m.shouldFailDelete {
		return trackererrors.NewTrackerError("DeleteSession", fmt.Errorf("mock delete failure"), trackererrors.ErrCodeConnection)
	}
	if _, exists := m.sessions[id]; !exists {
		return trackererrors.NewTrackerError("DeleteSession", fmt.Errorf("not found"), trackererrors.ErrCodeNotFound)
	}

	delete(m.sessions, id)
	return nil
}

// GetSession implements SessionRepository interface
func (m *MockRepository) GetSession(ctx context.Context, id string) (*types.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCallCount++

	if m.shouldFailGet {
		return nil, trackererrors.NewTrackerError("GetSession", fmt.Errorf("mock get failure"), trackererrors.ErrCodeConnection)
	}

	session, exists := m.sessions[id]
	if !exists {
		return nil, trackererrors.NewTrackerError("GetSession", fmt.Errorf("not found"), trackererrors.ErrCodeNotFound)
	}
	return session.Clone(), nil
}

// GetOpenSession implements SessionRepository interface
func (m *MockRepository) GetOpenSession(ctx context.Context, userID string) (*types.WorkSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shouldFailGet {
		return nil, trackererrors.NewTrackerError("GetOpenSession", fmt.Errorf("mock get failure"), trackererrors.ErrCodeConnection)
	}

	for _, session := range m.sessions {
		if session.UserID == userID && session.IsOpen() {
			return session.Clone(), nil
		}
	}
	return nil, trackererrors.NewTrackerError("GetOpenSession", fmt.Errorf("not found"), trackererrors.ErrCodeNotFound)
}

// ListSessionsForUser implements SessionRepository interface
func (m *MockRepository) ListSessionsForUser(ctx context.Context, userID string, from, to time.Time) ([]types.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCallCount++

	if m.shouldFailList {
		return nil, trackererrors.NewTrackerError("ListSessionsForUser", fmt.Errorf("mock list failure"), trackererrors.ErrCodeConnection)
	}

	fromDay := types.Midnight(from)
	toDay := types.Midnight(to)

	var result []types.WorkSession
	for _, session := range m.sessions {
		if session.UserID != userID {
			continue
		}
		if session.Date.Before(fromDay) || !session.Date.Before(toDay) {
			continue
		}
		result = append(result, *session.Clone())
	}

	// Ordered by clock-in to match the repository contract
	sort.Slice(result, func(i, j int) bool {
		return result[i].ClockIn.Before(result[j].ClockIn)
	})
	return result, nil
}

// CountSessionsForDay implements SessionRepository interface
func (m *MockRepository) CountSessionsForDay(ctx context.Context, userID string, day time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shouldFailList {
		return 0, trackererrors.NewTrackerError("CountSessionsForDay", fmt.Errorf("mock count failure"), trackererrors.ErrCodeConnection)
	}

	midnight := types.Midnight(day)
	count := 0
	for _, session := range m.sessions {
		if session.UserID == userID && session.Date.Equal(midnight) {
			count++
		}
	}
	return count, nil
}

// WithTransaction implements SessionRepository interface
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repo repository.SessionRepository) error) error {
	m.mu.Lock()
	m.transactionCalls++
	shouldFail := m.shouldFailTx
	m.mu.Unlock()

	if shouldFail {
		return trackererrors.NewTrackerError("WithTransaction", fmt.Errorf("mock transaction failure"), trackererrors.ErrCodeTransaction)
	}
	return fn(m)
}
