package auth

import (
	"context"
	"sync"
	"time"

	"github.com/foodshare/foodshare/internal/shared"
)

// FakeRepository is an in-memory Repository for tests.
type FakeRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*User
	emails map[string]struct{}
	tokens map[string]SessionToken

	CreateTokenErr error
	FindTokenErr   error
	DeleteErr      error
	// AfterFindToken runs after a successful FindToken, outside the lock.
	AfterFindToken func(token string)
}

// NewFakeRepository constructs an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		users:  make(map[string]*User),
		emails: make(map[string]struct{}),
		tokens: make(map[string]SessionToken),
	}
}

func (f *FakeRepository) CreateUser(_ context.Context, username, email, passwordHash string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return nil, shared.ErrDuplicate
	}
	if _, ok := f.emails[email]; ok {
		return nil, shared.ErrDuplicate
	}
	f.nextID++
	user := &User{ID: f.nextID, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[username] = user
	f.emails[email] = struct{}{}
	copied := *user
	return &copied, nil
}

func (f *FakeRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *FakeRepository) CreateToken(_ context.Context, userID int64, token string, createdAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateTokenErr != nil {
		return f.CreateTokenErr
	}
	if _, ok := f.tokens[token]; ok {
		return shared.ErrDuplicate
	}
	f.tokens[token] = SessionToken{ID: int64(len(f.tokens) + 1), UserID: userID, Token: token, CreatedAt: createdAt}
	return nil
}

func (f *FakeRepository) FindToken(_ context.Context, token string) (*SessionToken, error) {
	f.mu.Lock()
	if f.FindTokenErr != nil {
		f.mu.Unlock()
		return nil, f.FindTokenErr
	}
	row, ok := f.tokens[token]
	hook := f.AfterFindToken
	f.mu.Unlock()
	if !ok {
		return nil, shared.ErrNotFound
	}
	if hook != nil {
		hook(token)
	}
	return &row, nil
}

// RemoveToken deletes a token row directly.
func (f *FakeRepository) RemoveToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

func (f *FakeRepository) DeleteToken(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return false, f.DeleteErr
	}
	if _, ok := f.tokens[token]; !ok {
		return false, nil
	}
	delete(f.tokens, token)
	return true, nil
}

func (f *FakeRepository) DeleteTokensBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return 0, f.DeleteErr
	}
	var removed int64
	for key, row := range f.tokens {
		if row.CreatedAt.Before(cutoff) {
			delete(f.tokens, key)
			removed++
		}
	}
	return removed, nil
}

// PutToken inserts a token row directly.
func (f *FakeRepository) PutToken(userID int64, token string, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = SessionToken{ID: int64(len(f.tokens) + 1), UserID: userID, Token: token, CreatedAt: createdAt}
}

// HasToken reports whether a row exists for token.
func (f *FakeRepository) HasToken(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok
}

// TokenCount reports the number of stored tokens.
func (f *FakeRepository) TokenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// UserEmail returns the stored email for username.
func (f *FakeRepository) UserEmail(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[username]; ok {
		return user.Email
	}
	return ""
}

var _ Repository = (*FakeRepository)(nil)
