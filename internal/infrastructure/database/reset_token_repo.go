package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db.Gorm}
}

// Upsert keys on user_id: a new request replaces the selector, hash and
// expiry of any outstanding token, so older links stop working.
func (r *ResetTokenRepository) Upsert(ctx context.Context, t *domain.PasswordResetToken) error {
	m := passwordResetTokenModel{
		ID:        uuid.NewString(),
		UserID:    t.UserID,
		Selector:  t.Selector,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selector", "token_hash", "expires_at", "created_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) FindBySelector(ctx context.Context, selector string) (*domain.PasswordResetToken, error) {
	var m passwordResetTokenModel
	err := r.db.WithContext(ctx).Where("selector = ?", selector).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("query reset token: %w", err)
	}
	return m.toDomain(), nil
}

// Consume is the single atomic step of a reset: of two concurrent callers
// holding the same token only one deletes the row, the other sees zero rows
// affected and its transaction rolls back without touching the password.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenID, tokenHash, userID, newPasswordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ? AND token_hash = ?", tokenID, userID, tokenHash).
			Delete(&passwordResetTokenModel{})
		if res.Error != nil {
			return fmt.Errorf("delete reset token: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return domain.ErrResetTokenNotFound
		}

		res = tx.Model(&userModel{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"password_hash": newPasswordHash,
				"updated_at":    time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("update password: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
