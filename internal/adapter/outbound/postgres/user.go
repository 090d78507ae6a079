package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
)

// userAdapter implements outbound.UserDatabasePort.
type userAdapter struct {
	db *gorm.DB
}

// NewUserAdapter creates a new user database adapter.
func NewUserAdapter(db *gorm.DB) outbound.UserDatabasePort {
	return &userAdapter{db: db}
}

func (a *userAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := conn(ctx, a.db).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// TryDebitBalance subtracts amount only while the balance covers it, so two
// concurrent debits can never drive the balance negative.
func (a *userAdapter) TryDebitBalance(ctx context.Context, id uuid.UUID, amount int64) (bool, error) {
	result := conn(ctx, a.db).
		Model(&model.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Compile-time check
var _ outbound.UserDatabasePort = (*userAdapter)(nil)
