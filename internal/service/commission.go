package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelgk/elearn-backend/internal/config"
	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentSucceededEvent is the resolved form of the gateway's
// payment-succeeded notification. Delivery is at-least-once, so processing
// must be idempotent per payment.
type PaymentSucceededEvent struct {
	PaymentID   uint64
	PayerUserID uint64
	Amount      decimal.Decimal
	Currency    string
}

type CommissionService interface {
	// ProcessPaymentSucceeded creates up to three PENDING commission rows
	// for the payer's upline and returns every row recorded for the
	// payment, whether created by this call or an earlier one.
	ProcessPaymentSucceeded(ctx context.Context, evt PaymentSucceededEvent) ([]model.ReferralEarning, error)
}

type commissionService struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	earnings repository.ReferralEarningRepository
	notify   NotificationService
	rates    config.CommissionRates
	log      *zap.Logger
}

func NewCommissionService(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	earnings repository.ReferralEarningRepository,
	notify NotificationService,
	rates config.CommissionRates,
	log *zap.Logger,
) CommissionService {
	return &commissionService{
		payments: payments,
		users:    users,
		earnings: earnings,
		notify:   notify,
		rates:    rates,
		log:      log,
	}
}

// commissionAmount applies a rate to the gross amount with exact decimal
// arithmetic, rounded half-up to the currency's two minor-unit places. The
// same policy applies to every level of a payment.
func commissionAmount(gross decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return gross.Mul(rate).Round(2)
}

func (s *commissionService) ProcessPaymentSucceeded(ctx context.Context, evt PaymentSucceededEvent) ([]model.ReferralEarning, error) {
	payment, err := s.payments.FindByID(ctx, evt.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", evt.PaymentID, ErrNotFound)
		}
		return nil, err
	}
	if payment.Status != model.PaymentStatusSucceeded {
		return nil, fmt.Errorf("payment %d has status %q: %w", payment.ID, payment.Status, ErrPaymentNotSucceeded)
	}
	if evt.PayerUserID != 0 && evt.PayerUserID != payment.UserID {
		s.log.Warn("event payer disagrees with payment record; trusting the record",
			zap.Uint64("payment_id", payment.ID),
			zap.Uint64("event_payer", evt.PayerUserID),
			zap.Uint64("recorded_payer", payment.UserID))
	}

	payer, err := s.users.FindByID(ctx, payment.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Financial history outlives accounts; an orphaned payment is
			// logged and skipped, not raised.
			s.log.Warn("payer no longer exists; skipping commission generation",
				zap.Uint64("payment_id", payment.ID),
				zap.Uint64("payer_user_id", payment.UserID))
			return nil, nil
		}
		return nil, err
	}

	levels := []struct {
		uplineID *uint64
		rate     decimal.Decimal
		level    int
	}{
		{payer.UplineL1ID, s.rates.L1, 1},
		{payer.UplineL2ID, s.rates.L2, 2},
		{payer.UplineL3ID, s.rates.L3, 3},
	}

	for _, lv := range levels {
		if lv.uplineID == nil {
			// No upline at this level means no commission is owed; the
			// amount is not redistributed.
			continue
		}
		amount := commissionAmount(payment.Amount, lv.rate)
		earning := &model.ReferralEarning{
			UserID:           *lv.uplineID,
			ReferredUserID:   &payer.ID,
			SourcePaymentID:  &payment.ID,
			CommissionAmount: amount,
			CommissionRate:   lv.rate,
			ReferralLevel:    lv.level,
			Status:           model.CommissionStatusPending,
		}
		created, err := s.earnings.CreateIfAbsent(ctx, earning)
		if err != nil {
			// One level failing must not lose the others. Log enough to
			// reconcile manually and keep going.
			s.log.Error("failed to record commission earning",
				zap.Uint64("payment_id", payment.ID),
				zap.Uint64("earning_user_id", *lv.uplineID),
				zap.Int("level", lv.level),
				zap.Error(err))
			continue
		}
		if !created {
			s.log.Info("commission already recorded; skipping duplicate",
				zap.Uint64("payment_id", payment.ID),
				zap.Uint64("earning_user_id", *lv.uplineID),
				zap.Int("level", lv.level))
			continue
		}
		s.log.Info("commission earning created",
			zap.Uint64("payment_id", payment.ID),
			zap.Uint64("earning_user_id", *lv.uplineID),
			zap.Int("level", lv.level),
			zap.String("amount", amount.StringFixed(2)))

		s.notify.Notify(ctx, *lv.uplineID, model.NotificationTypeCommissionEarned,
			"You earned a referral commission",
			fmt.Sprintf("A level %d referral earned you %s %s.", lv.level, amount.StringFixed(2), payment.Currency),
			&earning.ID, &payment.ID)
	}

	return s.earnings.ListBySourcePayment(ctx, payment.ID)
}
