package usecase_test

import (
	"context"
	"sync"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

// memResetRepo keeps reset tokens in a map keyed by user id.
type memResetRepo struct {
	mu       sync.Mutex
	byUser   map[string]*domain.PasswordResetToken
	nextID   int
	consumed []string // new password hashes, in order
	findErr  error
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{byUser: make(map[string]*domain.PasswordResetToken)}
}

func (r *memResetRepo) Upsert(_ context.Context, t *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *t
	cp.ID = string(rune('a' + r.nextID))
	r.byUser[t.UserID] = &cp
	return nil
}

func (r *memResetRepo) FindBySelector(_ context.Context, selector string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, t := range r.byUser {
		if t.Selector == selector {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrResetTokenNotFound
}

func (r *memResetRepo) Consume(_ context.Context, tokenID, tokenHash, userID, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byUser[userID]
	if !ok || t.ID != tokenID || t.TokenHash != tokenHash {
		return domain.ErrResetTokenNotFound
	}
	delete(r.byUser, userID)
	r.consumed = append(r.consumed, newPasswordHash)
	return nil
}

func (r *memResetRepo) get(userID string) (*domain.PasswordResetToken, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byUser[userID]
	return t, ok
}

func (r *memResetRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

type fakeIssuer struct {
	issue func(userID, email string, role domain.Role) (string, error)
}

func (f *fakeIssuer) Issue(userID, email string, role domain.Role) (string, error) {
	return f.issue(userID, email, role)
}

// countingHasher wraps a real hasher and counts bcrypt operations so tests
// can check that both sides of a branch do the same amount of work.
type countingHasher struct {
	usecase.PasswordHasher

	mu      sync.Mutex
	nHash   int
	nVerify int
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.mu.Lock()
	h.nHash++
	h.mu.Unlock()
	return h.PasswordHasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext, hash string) (bool, error) {
	h.mu.Lock()
	h.nVerify++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(plaintext, hash)
}

func (h *countingHasher) counts() (hashes, verifies int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nHash, h.nVerify
}

func (h *countingHasher) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nHash, h.nVerify = 0, 0
}
