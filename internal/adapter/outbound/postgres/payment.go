package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
)

// paymentAdapter implements outbound.PaymentDatabasePort.
type paymentAdapter struct {
	db *gorm.DB
}

// NewPaymentAdapter creates a new payment database adapter.
func NewPaymentAdapter(db *gorm.DB) outbound.PaymentDatabasePort {
	return &paymentAdapter{db: db}
}

func (a *paymentAdapter) Create(ctx context.Context, payment *model.PaymentTransaction) error {
	return translate(conn(ctx, a.db).Create(payment).Error)
}

func (a *paymentAdapter) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.PaymentTransaction{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ outbound.PaymentDatabasePort = (*paymentAdapter)(nil)
