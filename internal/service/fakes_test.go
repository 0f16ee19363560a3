package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/events"
	"github.com/spec-kit/arogyam-health-service/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu             sync.Mutex
	users          map[int64]domain.User
	nextID         int64
	lookups        int
	recordLoginErr error
	lastLogins     map[string]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[int64]domain.User),
		lastLogins: make(map[string]time.Time),
		nextID:     1,
	}
}

func (f *fakeUserRepo) add(user domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	for _, user := range f.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.PhoneNumber == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repository.UserListFilters) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, user := range f.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.District != nil && user.District != *filters.District {
			continue
		}
		if filters.ActiveOnly && !user.IsActive {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, username string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordLoginErr != nil {
		return f.recordLoginErr
	}
	f.lastLogins[username] = at
	return nil
}

// fakeResetRepo is an in-memory PasswordResetRepository.
type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]repository.PasswordResetToken
	nextID int64
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]repository.PasswordResetToken), nextID: 1}
}

func (f *fakeResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = f.nextID
	f.nextID++
	token.CreatedAt = time.Now()
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeResetRepo) GetByToken(ctx context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := token
	return &copied, nil
}

func (f *fakeResetRepo) MarkUsed(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, token := range f.tokens {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			f.tokens[key] = token
		}
	}
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
