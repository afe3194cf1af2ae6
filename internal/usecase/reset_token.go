package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/repository"
)

const (
	defaultResetTokenTTL = time.Hour

	selectorBytes = 12
	verifierBytes = 32
)

var (
	selectorLen = base64.RawURLEncoding.EncodedLen(selectorBytes)
	verifierLen = base64.RawURLEncoding.EncodedLen(verifierBytes)
)

// PasswordHasher is implemented by *password.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
	DummyHash() string
}

// ResetTokenManager issues and consumes one-time password reset tokens.
//
// A raw token has the form "<selector>.<verifier>". The selector is a random
// lookup key stored in clear so that Consume loads exactly the row the token
// was issued for; the whole raw token is stored only as a bcrypt hash.
type ResetTokenManager struct {
	tokens repository.ResetTokenRepository
	hasher PasswordHasher
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

func NewResetTokenManager(tokens repository.ResetTokenRepository, hasher PasswordHasher, ttl time.Duration) *ResetTokenManager {
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	return &ResetTokenManager{
		tokens: tokens,
		hasher: hasher,
		ttl:    ttl,
		now:    time.Now,
		random: rand.Reader,
	}
}

func (m *ResetTokenManager) TTL() time.Duration { return m.ttl }

// Issue stores a fresh token for userID, replacing any outstanding one, and
// returns the raw value. This is the only place the raw value exists.
func (m *ResetTokenManager) Issue(ctx context.Context, userID string) (string, error) {
	selector, err := m.randomString(selectorBytes)
	if err != nil {
		return "", fmt.Errorf("generate selector: %w", err)
	}
	verifier, err := m.randomString(verifierBytes)
	if err != nil {
		return "", fmt.Errorf("generate verifier: %w", err)
	}
	raw := selector + "." + verifier

	tokenHash, err := m.hasher.Hash(raw)
	if err != nil {
		return "", fmt.Errorf("hash reset token: %w", err)
	}

	err = m.tokens.Upsert(ctx, &domain.PasswordResetToken{
		UserID:    userID,
		Selector:  selector,
		TokenHash: tokenHash,
		ExpiresAt: m.now().Add(m.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return raw, nil
}

// Consume checks rawToken and, if it is current, sets the owner's password
// to newPassword and deletes the token. Every token problem yields
// domain.ErrTokenInvalid.
func (m *ResetTokenManager) Consume(ctx context.Context, rawToken, newPassword string) error {
	selector, ok := parseSelector(rawToken)
	if !ok {
		return domain.ErrTokenInvalid
	}

	t, err := m.tokens.FindBySelector(ctx, selector)
	if err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			_, _ = m.hasher.Verify(rawToken, m.hasher.DummyHash())
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	// Compare before checking expiry so an expired token costs the same as a
	// wrong one.
	match, err := m.hasher.Verify(rawToken, t.TokenHash)
	if err != nil {
		return fmt.Errorf("verify reset token: %w", err)
	}
	if !match || t.Expired(m.now()) {
		return domain.ErrTokenInvalid
	}

	newHash, err := m.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := m.tokens.Consume(ctx, t.ID, t.TokenHash, t.UserID, newHash); err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

func (m *ResetTokenManager) randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(m.random, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func parseSelector(raw string) (string, bool) {
	selector, verifier, ok := strings.Cut(raw, ".")
	if !ok || len(selector) != selectorLen || len(verifier) != verifierLen {
		return "", false
	}
	return selector, true
}
