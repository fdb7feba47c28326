package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/repository"
	"github.com/kirinyoku/cinemago/internal/uow"
)

// Sessions keeps session records in memory. TTLs are ignored.
type Sessions struct {
	mu   sync.Mutex
	recs map[uuid.UUID]domain.Session
}

func NewSessions() *Sessions { return &Sessions{recs: make(map[uuid.UUID]domain.Session)} }

func (s *Sessions) Save(_ context.Context, sess *domain.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[sess.ID] = *sess
	return nil
}

func (s *Sessions) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *Sessions) Touch(_ context.Context, id uuid.UUID, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.LastActivityAt = at
	s.recs[id] = rec
	return nil
}

func (s *Sessions) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

// Orders is an order store that runs after-commit hooks inline.
type Orders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (m *Orders) CreateOrder(ctx context.Context, o *domain.Order, after ...uow.AfterCommit) error {
	m.mu.Lock()
	m.orders = append(m.orders, *o)
	m.mu.Unlock()

	for _, h := range after {
		h(ctx)
	}
	return nil
}

func (m *Orders) GetOrder(_ context.Context, account, code string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].Account == account && m.orders[i].Code == code {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Orders) LastOrder(_ context.Context, account string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].Account == account {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

type Audit struct {
	mu      sync.Mutex
	Entries []domain.AuditEntry
}

func (a *Audit) Record(_ context.Context, account, action, target string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := int64(len(a.Entries) + 1)
	a.Entries = append(a.Entries, domain.AuditEntry{ID: id, Account: account, Action: action, Target: target})
	return id, nil
}

func (a *Audit) List(_ context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if offset >= len(a.Entries) {
		return nil, nil
	}
	end := min(offset+limit, len(a.Entries))
	return append([]domain.AuditEntry(nil), a.Entries[offset:end]...), nil
}

// Idempotency mimics the LOCK/RES protocol of the redis store.
type Idempotency struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewIdempotency() *Idempotency { return &Idempotency{vals: make(map[string]string)} }

func (m *Idempotency) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vals[key]; ok {
		return false, nil
	}
	m.vals[key] = "LOCK"
	return true, nil
}

func (m *Idempotency) SaveResult(_ context.Context, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = "RES:" + payload
	return nil
}

func (m *Idempotency) GetResult(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	if !ok || len(v) < 4 || v[:4] != "RES:" {
		return "", false, nil
	}
	return v[4:], true, nil
}

func (m *Idempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
