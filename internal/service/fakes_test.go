package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
	"github.com/spec-kit/bus-complaint-service/internal/repository"
)

// memComplaintRepo is an in-memory ComplaintRepository mirroring the
// Postgres implementation's semantics closely enough for service tests.
type memComplaintRepo struct {
	mu         sync.Mutex
	complaints []domain.Complaint
	seq        int
}

func (m *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	complaint.ID = fmt.Sprintf("complaint-%d", m.seq)
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	m.complaints = append(m.complaints, *complaint)
	return nil
}

func (m *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.complaints {
		if m.complaints[i].ID == id {
			c := m.complaints[i]
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memComplaintRepo) ListByUser(_ context.Context, userID string) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Complaint
	for _, c := range m.complaints {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Complaint{}, m.complaints...), nil
}

func (m *memComplaintRepo) ListByRouteAndDay(_ context.Context, route string, day time.Time) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := day.Add(24 * time.Hour)
	var out []domain.Complaint
	for _, c := range m.complaints {
		if c.BusRoute != route {
			continue
		}
		if c.IncidentDate.Before(day) || !c.IncidentDate.Before(next) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memComplaintRepo) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.complaints {
		if m.complaints[i].ID == id {
			m.complaints[i].Status = status
			m.complaints[i].UpdatedAt = time.Now()
			c := m.complaints[i]
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memComplaintRepo) Stats(_ context.Context) (*repository.ComplaintStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := repository.ComplaintStats{Total: int64(len(m.complaints))}
	for _, c := range m.complaints {
		switch c.Status {
		case domain.ComplaintStatusPending:
			stats.Pending++
		case domain.ComplaintStatusResolved:
			stats.Resolved++
		}
	}
	return &stats, nil
}

func (m *memComplaintRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.complaints)
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users []domain.User
	seq   int
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	user.ID = fmt.Sprintf("user-%d", m.seq)
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users = append(m.users, *user)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, email) {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// recordingSink captures every notification attempt and answers with a
// configurable outcome.
type recordingSink struct {
	mu      sync.Mutex
	sends   []sentMail
	succeed bool
}

type sentMail struct {
	subject   string
	recipient string
	body      string
}

func newRecordingSink(succeed bool) *recordingSink {
	return &recordingSink{succeed: succeed}
}

func (s *recordingSink) Send(_ context.Context, subject, recipient, htmlBody string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, sentMail{subject: subject, recipient: recipient, body: htmlBody})
	return s.succeed
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sends)
}

func (s *recordingSink) last() (sentMail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sends) == 0 {
		return sentMail{}, false
	}
	return s.sends[len(s.sends)-1], true
}

// memRevoker tracks revoked token ids.
type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemRevoker() *memRevoker {
	return &memRevoker{revoked: make(map[string]time.Time)}
}

func (r *memRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = expiresAt
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[jti]
	return ok, nil
}
