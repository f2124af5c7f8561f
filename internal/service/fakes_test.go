package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/member-service/internal/domain"
	"github.com/spec-kit/member-service/internal/events"
	"github.com/spec-kit/member-service/internal/repository"
)

// memStore implements both stores over maps so service tests can observe
// state after each operation.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	members  map[int64]domain.Member
	regCodes map[int64]string
	resets   []domain.PasswordResetCode
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   100,
		members:  map[int64]domain.Member{},
		regCodes: map[int64]string{},
	}
}

func (s *memStore) repos() repository.Repositories {
	return repository.Repositories{Credentials: s, PasswordResets: s}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := &memStore{
		nextID:   s.nextID,
		members:  make(map[int64]domain.Member, len(s.members)),
		regCodes: make(map[int64]string, len(s.regCodes)),
		resets:   append([]domain.PasswordResetCode(nil), s.resets...),
	}
	for k, v := range s.members {
		cp.members[k] = v
	}
	for k, v := range s.regCodes {
		cp.regCodes[k] = v
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = from.nextID
	s.members = from.members
	s.regCodes = from.regCodes
	s.resets = from.resets
}

func (s *memStore) put(m domain.Member) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	s.members[m.ID] = m
	return m.ID
}

func (s *memStore) member(id int64) domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[id]
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

func (s *memStore) byEmail(email string) (domain.Member, bool) {
	for _, m := range s.members {
		if m.Email == email {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	m, ok := s.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	m, ok := s.byEmail(email)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) FindActiveByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !m.Status.CanAuthenticate() {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *memStore) FindPendingByEmailCode(_ context.Context, email, code string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byEmail(email)
	if !ok || m.Status != domain.MemberStatusPending || s.regCodes[m.ID] != code {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) CreatePending(_ context.Context, member *domain.Member, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.byEmail(member.Email); ok {
		return domain.ErrDuplicateEmail
	}
	s.nextID++
	member.ID = s.nextID
	member.Status = domain.MemberStatusPending
	s.members[member.ID] = *member
	s.regCodes[member.ID] = code
	return nil
}

func (s *memStore) update(id int64, fn func(*domain.Member)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	m, ok := s.members[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&m)
	s.members[id] = m
	return nil
}

func (s *memStore) Activate(_ context.Context, memberID int64) error {
	s.mu.Lock()
	m, ok := s.members[memberID]
	s.mu.Unlock()
	if !ok || m.Status != domain.MemberStatusPending {
		return domain.ErrNotFound
	}
	return s.update(memberID, func(m *domain.Member) { m.Status = domain.MemberStatusActive })
}

func (s *memStore) SetStatus(_ context.Context, memberID int64, status domain.MemberStatus) error {
	return s.update(memberID, func(m *domain.Member) { m.Status = status })
}

func (s *memStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	m, ok := s.byEmail(email)
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return s.update(m.ID, func(m *domain.Member) { m.Password = passwordHash })
}

func (s *memStore) UpdatePasswordByID(_ context.Context, memberID int64, passwordHash string) error {
	return s.update(memberID, func(m *domain.Member) { m.Password = passwordHash })
}

func (s *memStore) UpdateEmail(_ context.Context, memberID int64, email string) error {
	s.mu.Lock()
	other, taken := s.byEmail(email)
	s.mu.Unlock()
	if taken && other.ID != memberID {
		return domain.ErrDuplicateEmail
	}
	return s.update(memberID, func(m *domain.Member) { m.Email = email })
}

func (s *memStore) UpdateSecurityQuestion(_ context.Context, memberID int64, questionID int32, answer string) error {
	return s.update(memberID, func(m *domain.Member) {
		m.SecurityQuestion = questionID
		m.SecurityAnswer = answer
	})
}

func (s *memStore) Deactivate(_ context.Context, memberID int64, _ domain.Deactivation) error {
	return s.update(memberID, func(m *domain.Member) { m.Status = domain.MemberStatusDeactivated })
}

func (s *memStore) Create(_ context.Context, code *domain.PasswordResetCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	code.ID = int64(1000 + len(s.resets))
	code.Status = domain.ResetCodeUnused
	s.resets = append(s.resets, *code)
	return nil
}

func (s *memStore) FindUnused(_ context.Context, code string) (*domain.PasswordResetCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, rc := range s.resets {
		if rc.Code == code && rc.Status == domain.ResetCodeUnused {
			return &rc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) Consume(_ context.Context, code, email string, issuedAfter time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rc := range s.resets {
		if rc.Code == code && rc.Email == email && rc.Status == domain.ResetCodeUnused && rc.IssuedAt.After(issuedAfter) {
			now := time.Now()
			s.resets[i].Status = domain.ResetCodeUsed
			s.resets[i].UsedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

// memTx rolls the store back when fn fails.
type memTx struct {
	store *memStore
}

func (m memTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx, m.store.repos()); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) last(eventType events.EventType) (events.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i], true
		}
	}
	return events.Event{}, false
}

func (r *recordingDispatcher) count(eventType events.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
