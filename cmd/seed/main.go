// Command seed provisions a demo referral chain and runs one payment through
// the commission engine end to end. Intended for local development only.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abelgk/elearn-backend/internal/config"
	"github.com/abelgk/elearn-backend/internal/db"
	"github.com/abelgk/elearn-backend/internal/logging"
	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"github.com/abelgk/elearn-backend/internal/service"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rates, err := cfg.Rates()
	if err != nil {
		return fmt.Errorf("commission rates: %w", err)
	}
	logger, err := logging.New(cfg.Production())
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	userRepo := repository.NewUserRepository(gdb)
	paymentRepo := repository.NewPaymentRepository(gdb)
	earningRepo := repository.NewReferralEarningRepository(gdb)
	notifRepo := repository.NewNotificationRepository(gdb)

	notifSvc := service.NewNotificationService(notifRepo, logger)
	lineageSvc := service.NewLineageService(userRepo, logger)
	userSvc := service.NewUserService(userRepo, lineageSvc, notifSvc, logger)
	commissionSvc := service.NewCommissionService(paymentRepo, userRepo, earningRepo, notifSvc, rates, logger)
	referralSvc := service.NewReferralService(earningRepo, userRepo, logger)

	// Four-generation chain: u1 <- u2 <- u3 <- u4.
	var chain []*model.User
	prevCode := ""
	for i := 1; i <= 4; i++ {
		u, err := userSvc.Register(ctx, service.RegisterUserInput{
			FirebaseUID:      fmt.Sprintf("seed-uid-%d-%s", i, uuid.NewString()[:8]),
			Email:            fmt.Sprintf("seed-user-%d-%s@example.com", i, uuid.NewString()[:8]),
			ReferralCodeUsed: prevCode,
		})
		if err != nil {
			return fmt.Errorf("register u%d: %w", i, err)
		}
		chain = append(chain, u)
		prevCode = u.ReferralCode
	}

	// u4 pays; u3, u2 and u1 should earn L1/L2/L3 commissions.
	payer := chain[3]
	txn := uuid.NewString()
	payment := &model.Payment{
		UserID:        payer.ID,
		Amount:        decimal.RequireFromString("100.00"),
		Currency:      "USD",
		Status:        model.PaymentStatusPending,
		TransactionID: &txn,
	}
	if err := paymentRepo.Create(ctx, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	if _, err := paymentRepo.MarkSucceeded(ctx, payment.ID, time.Now()); err != nil {
		return fmt.Errorf("mark payment succeeded: %w", err)
	}

	earnings, err := commissionSvc.ProcessPaymentSucceeded(ctx, service.PaymentSucceededEvent{
		PaymentID:   payment.ID,
		PayerUserID: payer.ID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
	})
	if err != nil {
		return fmt.Errorf("process payment: %w", err)
	}
	for _, e := range earnings {
		log.Printf("earning: user=%d level=%d amount=%s status=%s",
			e.UserID, e.ReferralLevel, e.CommissionAmount.StringFixed(2), e.Status)
	}

	stats, err := referralSvc.StatsForUser(ctx, chain[0].ID)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	log.Printf("u1 stats: direct=%d l2=%d l3=%d pending=%s lifetime=%s",
		stats.DirectReferrals, stats.L2Referrals, stats.L3Referrals,
		stats.PendingTotal.StringFixed(2), stats.LifetimeTotal.StringFixed(2))

	return nil
}
