package database

import (
	"context"
	"fmt"
)

// Migrate creates or updates the users and password_reset_tokens tables.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.Gorm.WithContext(ctx).AutoMigrate(&userModel{}, &passwordResetTokenModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
