package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterUserInput is the resolved form of the registration event. The
// external identity collaborator has already verified FirebaseUID and Email.
type RegisterUserInput struct {
	FirebaseUID      string
	Email            string
	Role             string
	ReferralCodeUsed string
}

type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*model.User, error)
}

type userService struct {
	users   repository.UserRepository
	lineage LineageService
	notify  NotificationService
	log     *zap.Logger
}

func NewUserService(users repository.UserRepository, lineage LineageService, notify NotificationService, log *zap.Logger) UserService {
	return &userService{users: users, lineage: lineage, notify: notify, log: log}
}

// generateReferralCode returns a 12-char lowercase hex code.
func generateReferralCode() string {
	b := make([]byte, 6)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *userService) Register(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	if in.FirebaseUID == "" || in.Email == "" {
		return nil, errors.New("firebase uid and email are required")
	}

	// An unknown referral code degrades to "no referrer"; registration
	// must never fail because of a stale or mistyped code.
	var referrerID *uint64
	if in.ReferralCodeUsed != "" {
		referrer, err := s.users.FindByReferralCode(ctx, in.ReferralCodeUsed)
		switch {
		case err == nil:
			referrerID = &referrer.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.log.Warn("referral code did not match any user",
				zap.String("referral_code", in.ReferralCodeUsed),
				zap.String("email", in.Email))
		default:
			return nil, err
		}
	}

	lin, err := s.lineage.Build(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleSubscriber
	}
	u := &model.User{
		FirebaseUID:  in.FirebaseUID,
		Email:        in.Email,
		Role:         role,
		ReferralCode: generateReferralCode(),
		ReferredByID: referrerID,
		UplineL1ID:   lin.L1,
		UplineL2ID:   lin.L2,
		UplineL3ID:   lin.L3,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered",
		zap.Uint64("user_id", u.ID),
		zap.Uint64p("upline_l1", u.UplineL1ID),
		zap.Uint64p("upline_l2", u.UplineL2ID),
		zap.Uint64p("upline_l3", u.UplineL3ID))

	s.notify.Notify(ctx, u.ID, model.NotificationTypeWelcome,
		"Welcome!", "Your account is ready. Share your referral code to earn commissions.", nil, nil)

	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) GetByFirebaseUID(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.users.FindByFirebaseUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
