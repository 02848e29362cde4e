package model

import "time"

const RoleSubscriber = "Subscriber"

// User carries the referral-relevant subset of the account record.
// Identity verification lives with the external provider; only the
// already-verified provider UID is stored here.
//
// UplineL1ID always equals ReferredByID. UplineL2ID/UplineL3ID are
// snapshotted from the referrer's own chain at registration time and are
// never recomputed, so the upline pointers form an append-only forest.
type User struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	FirebaseUID  string  `gorm:"column:firebase_uid;size:128;uniqueIndex;not null"`
	Email        string  `gorm:"column:email;size:255;uniqueIndex;not null"`
	Role         string  `gorm:"column:role;size:50;not null"`
	ReferralCode string  `gorm:"column:referral_code;size:32;uniqueIndex;not null"`
	ReferredByID *uint64 `gorm:"column:referred_by_id;index"`
	UplineL1ID   *uint64 `gorm:"column:upline_l1_id;index"`
	UplineL2ID   *uint64 `gorm:"column:upline_l2_id;index"`
	UplineL3ID   *uint64 `gorm:"column:upline_l3_id;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
