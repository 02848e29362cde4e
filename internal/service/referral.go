package service

import (
	"context"
	"errors"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// validTransitions is the commission status lifecycle. Anything not listed
// here is rejected, including every transition out of paid or rejected.
var validTransitions = map[model.CommissionStatus][]model.CommissionStatus{
	model.CommissionStatusPending:  {model.CommissionStatusApproved, model.CommissionStatusRejected},
	model.CommissionStatusApproved: {model.CommissionStatusPaid, model.CommissionStatusRejected},
}

func transitionAllowed(from, to model.CommissionStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReferralStats aggregates a user's downline and earnings.
type ReferralStats struct {
	DirectReferrals int
	L2Referrals     int
	L3Referrals     int
	PendingTotal    decimal.Decimal
	ApprovedTotal   decimal.Decimal
	PaidTotal       decimal.Decimal
	LifetimeTotal   decimal.Decimal
}

type ReferralService interface {
	GetEarning(ctx context.Context, id uint64) (*model.ReferralEarning, error)
	ListEarningsForUser(ctx context.Context, userID uint64, status *model.CommissionStatus, limit, offset int) ([]model.ReferralEarning, error)
	ListAllEarnings(ctx context.Context, filter repository.EarningFilter, limit, offset int) ([]model.ReferralEarning, error)
	// UpdateEarningStatus applies a lifecycle transition with an optimistic
	// guard: the update only lands while the row still holds the status the
	// caller saw, so two admins cannot silently double-apply.
	UpdateEarningStatus(ctx context.Context, id uint64, newStatus model.CommissionStatus, notes *string) (*model.ReferralEarning, error)
	// Downline walks the reverse-upline graph breadth first, one query per
	// level, stopping as soon as a level is empty.
	Downline(ctx context.Context, userID uint64, maxLevels int) (map[int][]model.User, error)
	StatsForUser(ctx context.Context, userID uint64) (*ReferralStats, error)
}

type referralService struct {
	earnings repository.ReferralEarningRepository
	users    repository.UserRepository
	log      *zap.Logger
}

func NewReferralService(earnings repository.ReferralEarningRepository, users repository.UserRepository, log *zap.Logger) ReferralService {
	return &referralService{earnings: earnings, users: users, log: log}
}

func (s *referralService) GetEarning(ctx context.Context, id uint64) (*model.ReferralEarning, error) {
	e, err := s.earnings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *referralService) ListEarningsForUser(ctx context.Context, userID uint64, status *model.CommissionStatus, limit, offset int) ([]model.ReferralEarning, error) {
	return s.earnings.ListByUser(ctx, userID, status, limit, offset)
}

func (s *referralService) ListAllEarnings(ctx context.Context, filter repository.EarningFilter, limit, offset int) ([]model.ReferralEarning, error) {
	return s.earnings.ListAll(ctx, filter, limit, offset)
}

func (s *referralService) UpdateEarningStatus(ctx context.Context, id uint64, newStatus model.CommissionStatus, notes *string) (*model.ReferralEarning, error) {
	cur, err := s.GetEarning(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(cur.Status, newStatus) {
		return nil, ErrInvalidTransition
	}
	rows, err := s.earnings.UpdateStatusIf(ctx, id, cur.Status, newStatus, notes)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Someone else moved the row between our read and the update.
		s.log.Warn("commission status transition lost to concurrent update",
			zap.Uint64("earning_id", id),
			zap.String("expected", string(cur.Status)),
			zap.String("requested", string(newStatus)))
		return nil, ErrInvalidTransition
	}
	s.log.Info("commission status updated",
		zap.Uint64("earning_id", id),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(newStatus)))
	return s.GetEarning(ctx, id)
}

func (s *referralService) Downline(ctx context.Context, userID uint64, maxLevels int) (map[int][]model.User, error) {
	result := make(map[int][]model.User, maxLevels)
	for level := 1; level <= maxLevels; level++ {
		result[level] = []model.User{}
	}

	frontier := []uint64{userID}
	for level := 1; level <= maxLevels; level++ {
		users, err := s.users.ListByUplineL1In(ctx, frontier)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			break
		}
		result[level] = users
		frontier = frontier[:0]
		for _, u := range users {
			frontier = append(frontier, u.ID)
		}
	}
	return result, nil
}

func (s *referralService) StatsForUser(ctx context.Context, userID uint64) (*ReferralStats, error) {
	downline, err := s.Downline(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	stats := &ReferralStats{
		DirectReferrals: len(downline[1]),
		L2Referrals:     len(downline[2]),
		L3Referrals:     len(downline[3]),
	}

	for _, agg := range []struct {
		status model.CommissionStatus
		dst    *decimal.Decimal
	}{
		{model.CommissionStatusPending, &stats.PendingTotal},
		{model.CommissionStatusApproved, &stats.ApprovedTotal},
		{model.CommissionStatusPaid, &stats.PaidTotal},
	} {
		sum, err := s.earnings.SumAmountByStatus(ctx, userID, agg.status)
		if err != nil {
			return nil, err
		}
		*agg.dst = sum
	}
	stats.LifetimeTotal = stats.PendingTotal.Add(stats.ApprovedTotal).Add(stats.PaidTotal)
	return stats, nil
}
