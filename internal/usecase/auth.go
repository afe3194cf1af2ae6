package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/email"
	"github.com/ErlanBelekov/groupsite-api/internal/metrics"
	"github.com/ErlanBelekov/groupsite-api/internal/repository"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit

	emailSendTimeout = 15 * time.Second

	// hashed on the unknown-email path; same length as a raw reset token
	unknownResetFiller = "AAAAAAAAAAAAAAAA.AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

// TokenIssuer is implemented by *token.Issuer.
type TokenIssuer interface {
	Issue(userID, email string, role domain.Role) (string, error)
}

type AuthUsecase struct {
	users         repository.UserRepository
	resets        *ResetTokenManager
	hasher        PasswordHasher
	tokens        TokenIssuer
	email         email.Sender
	resetLinkBase string
	logger        *slog.Logger

	// tracks reset emails still being delivered
	inflight sync.WaitGroup
}

func NewAuthUsecase(
	users repository.UserRepository,
	resets *ResetTokenManager,
	hasher PasswordHasher,
	tokens TokenIssuer,
	emailSender email.Sender,
	resetLinkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		resets:        resets,
		hasher:        hasher,
		tokens:        tokens,
		email:         emailSender,
		resetLinkBase: resetLinkBase,
		logger:        logger.With("component", "auth_usecase"),
	}
}

// Login returns a signed access token. An unknown email and a wrong password
// fail identically, and both spend one bcrypt comparison.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_, _ = u.hasher.Verify(password, u.hasher.DummyHash())
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return "", domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("issue access token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return signed, nil
}

// StartReset issues a reset token for the account behind emailAddr and
// queues the link for delivery. An unknown email returns "", nil after the
// same bcrypt work a real token costs; delivery runs off the request path so
// the mail provider's latency does not tell the two cases apart.
func (u *AuthUsecase) StartReset(ctx context.Context, emailAddr string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_, _ = u.hasher.Hash(unknownResetFiller)
			metrics.PasswordResetsTotal.WithLabelValues(metrics.StageRequest, metrics.OutcomeSkipped).Inc()
			return "", nil
		}
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageRequest, metrics.OutcomeError).Inc()
		return "", fmt.Errorf("find user: %w", err)
	}

	raw, err := u.resets.Issue(ctx, user.ID)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageRequest, metrics.OutcomeError).Inc()
		return "", err
	}

	subject, body := email.PasswordResetMessage(u.resetLink(raw), u.resets.TTL())
	u.sendAsync(ctx, user, subject, body)
	return raw, nil
}

// sendAsync delivers the reset email on a context detached from the request
// but bounded by emailSendTimeout. Failures are logged and counted.
func (u *AuthUsecase) sendAsync(ctx context.Context, user *domain.User, subject, body string) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailSendTimeout)

	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		defer cancel()

		if err := u.email.Send(sendCtx, user.Email, subject, body); err != nil {
			u.logger.ErrorContext(sendCtx, "send reset email", "user_id", user.ID, "error", err)
			metrics.PasswordResetsTotal.WithLabelValues(metrics.StageRequest, metrics.OutcomeError).Inc()
			return
		}
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageRequest, metrics.OutcomeSuccess).Inc()
	}()
}

// Wait blocks until queued reset emails have been handed to the sender.
func (u *AuthUsecase) Wait() {
	u.inflight.Wait()
}

// CompleteReset sets a new password using a token from StartReset. Token
// failures surface as domain.ErrTokenInvalid.
func (u *AuthUsecase) CompleteReset(ctx context.Context, rawToken, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	err := u.resets.Consume(ctx, rawToken, newPassword)
	switch {
	case err == nil:
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageComplete, metrics.OutcomeSuccess).Inc()
	case errors.Is(err, domain.ErrTokenInvalid):
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageComplete, metrics.OutcomeFailure).Inc()
	default:
		metrics.PasswordResetsTotal.WithLabelValues(metrics.StageComplete, metrics.OutcomeError).Inc()
	}
	return err
}

// CurrentUser loads the account behind an authenticated identity.
func (u *AuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateUser registers a back-office account. Only admins reach it.
func (u *AuthUsecase) CreateUser(ctx context.Context, emailAddr, password string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{Email: emailAddr, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (u *AuthUsecase) resetLink(raw string) string {
	return u.resetLinkBase + "/reset-password?token=" + url.QueryEscape(raw)
}

func validatePassword(p string) error {
	if len(p) < minPasswordLen || len(p) > maxPasswordLen {
		return domain.ErrWeakPassword
	}
	return nil
}
