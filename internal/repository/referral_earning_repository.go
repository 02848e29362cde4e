package repository

import (
	"context"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EarningFilter narrows admin ledger listings.
type EarningFilter struct {
	Status         *model.CommissionStatus
	UserID         *uint64 // earning user
	ReferredUserID *uint64 // source user
}

type ReferralEarningRepository interface {
	// CreateIfAbsent inserts the earning unless a row for the same
	// (user, source payment, level) already exists. The duplicate case is
	// reported via created=false, never as an error, so replayed payment
	// events are idempotent.
	CreateIfAbsent(ctx context.Context, e *model.ReferralEarning) (created bool, err error)
	FindByID(ctx context.Context, id uint64) (*model.ReferralEarning, error)
	ListByUser(ctx context.Context, userID uint64, status *model.CommissionStatus, limit, offset int) ([]model.ReferralEarning, error)
	ListAll(ctx context.Context, filter EarningFilter, limit, offset int) ([]model.ReferralEarning, error)
	ListBySourcePayment(ctx context.Context, paymentID uint64) ([]model.ReferralEarning, error)
	// UpdateStatusIf applies the transition only while the row still holds
	// the expected previous status. Returns rows affected; 0 means a
	// concurrent update won or the row is gone.
	UpdateStatusIf(ctx context.Context, id uint64, from, to model.CommissionStatus, notes *string) (int64, error)
	SumAmountByStatus(ctx context.Context, userID uint64, status model.CommissionStatus) (decimal.Decimal, error)
}

type referralEarningRepository struct {
	db *gorm.DB
}

func NewReferralEarningRepository(db *gorm.DB) ReferralEarningRepository {
	return &referralEarningRepository{db: db}
}

func (r *referralEarningRepository) CreateIfAbsent(ctx context.Context, e *model.ReferralEarning) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *referralEarningRepository) FindByID(ctx context.Context, id uint64) (*model.ReferralEarning, error) {
	var e model.ReferralEarning
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *referralEarningRepository) ListByUser(ctx context.Context, userID uint64, status *model.CommissionStatus, limit, offset int) ([]model.ReferralEarning, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var list []model.ReferralEarning
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralEarningRepository) ListAll(ctx context.Context, filter EarningFilter, limit, offset int) ([]model.ReferralEarning, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Model(&model.ReferralEarning{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.ReferredUserID != nil {
		q = q.Where("referred_user_id = ?", *filter.ReferredUserID)
	}
	var list []model.ReferralEarning
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralEarningRepository) ListBySourcePayment(ctx context.Context, paymentID uint64) ([]model.ReferralEarning, error) {
	var list []model.ReferralEarning
	if err := r.db.WithContext(ctx).
		Where("source_payment_id = ?", paymentID).
		Order("referral_level ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralEarningRepository) UpdateStatusIf(ctx context.Context, id uint64, from, to model.CommissionStatus, notes *string) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if notes != nil {
		updates["notes"] = *notes
	}
	res := r.db.WithContext(ctx).
		Model(&model.ReferralEarning{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *referralEarningRepository) SumAmountByStatus(ctx context.Context, userID uint64, status model.CommissionStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.ReferralEarning{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(commission_amount), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
