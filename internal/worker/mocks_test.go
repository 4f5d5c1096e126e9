package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/models"
)

// MockStatStore implements StatStore for testing
type MockStatStore struct {
	mu                sync.Mutex
	Locks             map[string]string
	PublishedMessages []PublishedMessage
	SetNXErr          error
}

type PublishedMessage struct {
	Channel string
	Message interface{}
}

func NewMockStatStore() *MockStatStore {
	return &MockStatStore{
		Locks:             make(map[string]string),
		PublishedMessages: make([]PublishedMessage, 0),
	}
}

func (m *MockStatStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetNXErr != nil {
		return false, m.SetNXErr
	}
	if _, held := m.Locks[key]; held {
		return false, nil
	}
	m.Locks[key] = fmt.Sprint(value)
	return true, nil
}

func (m *MockStatStore) Publish(ctx context.Context, channel string, message interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages = append(m.PublishedMessages, PublishedMessage{
		Channel: channel,
		Message: message,
	})
	return nil
}

func (m *MockStatStore) Release(ctx context.Context, key, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Locks[key] != token {
		return false, nil
	}
	delete(m.Locks, key)
	return true, nil
}

func (m *MockStatStore) published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedMessage(nil), m.PublishedMessages...)
}

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	mu       sync.Mutex
	Batches  []*MockBatch
	SendErr  error
	Prepared int
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prepared++
	b := &MockBatch{sendErr: m.SendErr}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockClickHouseConn) sentRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		if b.sent {
			n += len(b.rows)
		}
	}
	return n
}

type MockBatch struct {
	driver.Batch
	rows    [][]interface{}
	sent    bool
	sendErr error
}

func (m *MockBatch) IsSent() bool {
	return m.sent
}

func (m *MockBatch) Rows() int {
	return len(m.rows)
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.rows = append(m.rows, v)
	return nil
}

func (m *MockBatch) Send() error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}

// recordingQueue collects recalculation requests from the pool
type recordingQueue struct {
	mu   sync.Mutex
	jobs []RecalcJob
}

func (q *recordingQueue) Enqueue(job RecalcJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *recordingQueue) snapshot() []RecalcJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]RecalcJob(nil), q.jobs...)
}

// stubAchievements implements logic.AchievementsService
type stubAchievements struct {
	logic.AchievementsService
	mu       sync.Mutex
	defs     []models.AchievementDefinition
	delta    models.AchievementDelta
	err      error
	calls    int
	active   int
	overlaps int
	hold     time.Duration
	// onRecalculate runs inside Recalculate before it returns
	onRecalculate func()
}

func (s *stubAchievements) Definitions() []models.AchievementDefinition {
	return s.defs
}

func (s *stubAchievements) Recalculate(ctx context.Context, userID uuid.UUID, version string) (models.AchievementDelta, error) {
	s.mu.Lock()
	s.calls++
	s.active++
	if s.active > 1 {
		s.overlaps++
	}
	s.mu.Unlock()

	time.Sleep(s.hold)
	if s.onRecalculate != nil {
		s.onRecalculate()
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return s.delta, s.err
}

func (s *stubAchievements) stats() (calls, overlaps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.overlaps
}

// stubLeagues implements logic.LeagueService
type stubLeagues struct {
	logic.LeagueService
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (s *stubLeagues) InvalidateStandings(ctx context.Context, userID uuid.UUID, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, userID)
	return nil
}
