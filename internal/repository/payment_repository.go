package repository

import (
	"context"
	"time"

	"github.com/abelgk/elearn-backend/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id uint64) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, txnID string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Payment, error)
	// MarkSucceeded flips a pending payment to succeeded. Returns the number
	// of rows updated; 0 means the payment was missing or not pending.
	MarkSucceeded(ctx context.Context, id uint64, paidAt time.Time) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, txnID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", txnID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []model.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *paymentRepository) MarkSucceeded(ctx context.Context, id uint64, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":  model.PaymentStatusSucceeded,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
