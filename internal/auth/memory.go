package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore keeps accounts in-process. Used when no DATABASE_URL
// is configured, and by tests.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint64
	users  map[uint64]User
	email  map[string]uint64 // normalized email -> user ID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[uint64]User),
		email: make(map[string]uint64),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.email[u.Email]; exists {
		return ErrDuplicateEmail
	}
	m.nextID++
	u.ID = m.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users[u.ID] = *u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id uint64) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryUserStore) UpdateEmail(_ context.Context, id uint64, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	if owner, exists := m.email[email]; exists && owner != id {
		return User{}, ErrDuplicateEmail
	}
	delete(m.email, u.Email)
	u.Email = email
	m.users[id] = u
	m.email[email] = id
	return u, nil
}
