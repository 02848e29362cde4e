package service

import (
	"context"
	"errors"

	"github.com/abelgk/elearn-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Lineage is the upline snapshot stamped onto a new user at registration.
// Each pointer may be nil; L2 and L3 are nil whenever the chain is shorter.
type Lineage struct {
	L1 *uint64
	L2 *uint64
	L3 *uint64
}

type LineageService interface {
	// Build resolves the upline chain for a new user referred by referrerID.
	// A nil or unresolvable referrer yields an empty lineage; a dangling
	// referral must not block registration, so that case is logged, not
	// returned as an error.
	Build(ctx context.Context, referrerID *uint64) (Lineage, error)
}

type lineageService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewLineageService(users repository.UserRepository, log *zap.Logger) LineageService {
	return &lineageService{users: users, log: log}
}

func (s *lineageService) Build(ctx context.Context, referrerID *uint64) (Lineage, error) {
	if referrerID == nil {
		return Lineage{}, nil
	}
	referrer, err := s.users.FindByID(ctx, *referrerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("referrer not found; registering without upline",
				zap.Uint64("referrer_id", *referrerID))
			return Lineage{}, nil
		}
		return Lineage{}, err
	}
	// The chain shifts one position per generation: the new user's L2 is
	// the referrer's L1, and the new user's L3 is the referrer's L2.
	return Lineage{
		L1: &referrer.ID,
		L2: referrer.UplineL1ID,
		L3: referrer.UplineL2ID,
	}, nil
}
