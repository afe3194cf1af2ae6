package repository

import (
	"context"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
)

// Usecases depend on these interfaces so tests can pass fakes and the
// database layer can be swapped without touching them.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type ResetTokenRepository interface {
	// Upsert stores the token for its user, replacing any previous row.
	Upsert(ctx context.Context, token *domain.PasswordResetToken) error
	FindBySelector(ctx context.Context, selector string) (*domain.PasswordResetToken, error)

	// Consume deletes the token row only if it still carries tokenHash and,
	// in the same transaction, sets the owner's password hash. It returns
	// domain.ErrResetTokenNotFound when no row matched.
	Consume(ctx context.Context, tokenID, tokenHash, userID, newPasswordHash string) error
}
