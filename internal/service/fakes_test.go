package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic only the storage behavior the
// services rely on: record-not-found errors, the composite uniqueness guard
// on earnings, and conditional status updates.

type fakeUserRepo struct {
	users          map[uint64]*model.User
	nextID         uint64
	uplineQueries  int
	failListUpline error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.FirebaseUID == u.FirebaseUID || existing.Email == u.Email || existing.ReferralCode == u.ReferralCode {
			return errors.New("duplicate key")
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByFirebaseUID(_ context.Context, uid string) (*model.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByReferralCode(_ context.Context, code string) (*model.User, error) {
	for _, u := range r.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ListByUplineL1In(_ context.Context, ids []uint64) ([]model.User, error) {
	r.uplineQueries++
	if r.failListUpline != nil {
		return nil, r.failListUpline
	}
	idSet := map[uint64]bool{}
	for _, id := range ids {
		idSet[id] = true
	}
	var out []model.User
	for id := uint64(1); id <= r.nextID; id++ {
		u, ok := r.users[id]
		if !ok || u.UplineL1ID == nil {
			continue
		}
		if idSet[*u.UplineL1ID] {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments map[uint64]*model.Payment
	nextID   uint64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uint64]*model.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uint64) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, txnID string) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.TransactionID != nil && *p.TransactionID == txnID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) ListByUser(_ context.Context, userID uint64, _, _ int) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) MarkSucceeded(_ context.Context, id uint64, paidAt time.Time) (int64, error) {
	p, ok := r.payments[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return 0, nil
	}
	p.Status = model.PaymentStatusSucceeded
	p.PaidAt = &paidAt
	return 1, nil
}

type fakeEarningRepo struct {
	earnings    map[uint64]*model.ReferralEarning
	order       []uint64
	nextID      uint64
	failOnLevel int // CreateIfAbsent returns an error for this level when non-zero
}

func newFakeEarningRepo() *fakeEarningRepo {
	return &fakeEarningRepo{earnings: map[uint64]*model.ReferralEarning{}}
}

func earningKey(e *model.ReferralEarning) string {
	var payment uint64
	if e.SourcePaymentID != nil {
		payment = *e.SourcePaymentID
	}
	return fmt.Sprintf("%d/%d/%d", e.UserID, payment, e.ReferralLevel)
}

func (r *fakeEarningRepo) CreateIfAbsent(_ context.Context, e *model.ReferralEarning) (bool, error) {
	if r.failOnLevel != 0 && e.ReferralLevel == r.failOnLevel {
		return false, errors.New("storage unavailable")
	}
	key := earningKey(e)
	for _, existing := range r.earnings {
		if earningKey(existing) == key {
			return false, nil
		}
	}
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	cp := *e
	r.earnings[e.ID] = &cp
	r.order = append(r.order, e.ID)
	return true, nil
}

func (r *fakeEarningRepo) FindByID(_ context.Context, id uint64) (*model.ReferralEarning, error) {
	e, ok := r.earnings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEarningRepo) ListByUser(_ context.Context, userID uint64, status *model.CommissionStatus, _, _ int) ([]model.ReferralEarning, error) {
	var out []model.ReferralEarning
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.earnings[r.order[i]]
		if e.UserID != userID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEarningRepo) ListAll(_ context.Context, filter repository.EarningFilter, _, _ int) ([]model.ReferralEarning, error) {
	var out []model.ReferralEarning
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.earnings[r.order[i]]
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.ReferredUserID != nil && (e.ReferredUserID == nil || *e.ReferredUserID != *filter.ReferredUserID) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEarningRepo) ListBySourcePayment(_ context.Context, paymentID uint64) ([]model.ReferralEarning, error) {
	var out []model.ReferralEarning
	for level := 1; level <= 3; level++ {
		for _, id := range r.order {
			e := r.earnings[id]
			if e.SourcePaymentID != nil && *e.SourcePaymentID == paymentID && e.ReferralLevel == level {
				out = append(out, *e)
			}
		}
	}
	return out, nil
}

func (r *fakeEarningRepo) UpdateStatusIf(_ context.Context, id uint64, from, to model.CommissionStatus, notes *string) (int64, error) {
	e, ok := r.earnings[id]
	if !ok || e.Status != from {
		return 0, nil
	}
	e.Status = to
	if notes != nil {
		e.Notes = *notes
	}
	return 1, nil
}

func (r *fakeEarningRepo) SumAmountByStatus(_ context.Context, userID uint64, status model.CommissionStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.earnings {
		if e.UserID == userID && e.Status == status {
			total = total.Add(e.CommissionAmount)
		}
	}
	return total, nil
}

type fakeNotificationRepo struct {
	notifications []model.Notification
	failCreate    bool
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if r.failCreate {
		return errors.New("notification store down")
	}
	n.ID = uint64(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uint64, unreadOnly bool, _ int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint64) error {
	now := time.Now()
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && r.notifications[i].ReadAt == nil {
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	var cnt int64
	for _, n := range r.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}
