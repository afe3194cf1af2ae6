package database

import (
	"time"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
)

type userModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:16;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type passwordResetTokenModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex"`
	User      userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Selector  string    `gorm:"size:32;not null;uniqueIndex"`
	TokenHash string    `gorm:"size:100;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (passwordResetTokenModel) TableName() string { return "password_reset_tokens" }

func (m *passwordResetTokenModel) toDomain() *domain.PasswordResetToken {
	return &domain.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Selector:  m.Selector,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
