package service

import (
	"context"
	"testing"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedUser(t *testing.T, repo *fakeUserRepo, code string, l1, l2, l3 *uint64) *model.User {
	t.Helper()
	u := &model.User{
		FirebaseUID:  "uid-" + code,
		Email:        code + "@example.com",
		Role:         model.RoleSubscriber,
		ReferralCode: code,
		ReferredByID: l1,
		UplineL1ID:   l1,
		UplineL2ID:   l2,
		UplineL3ID:   l3,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLineageBuildNilReferrer(t *testing.T) {
	svc := NewLineageService(newFakeUserRepo(), zap.NewNop())

	lin, err := svc.Build(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, lin.L1)
	require.Nil(t, lin.L2)
	require.Nil(t, lin.L3)
}

func TestLineageBuildUnknownReferrerDegrades(t *testing.T) {
	svc := NewLineageService(newFakeUserRepo(), zap.NewNop())

	missing := uint64(42)
	lin, err := svc.Build(context.Background(), &missing)
	require.NoError(t, err, "a dangling referrer must not block registration")
	require.Equal(t, Lineage{}, lin)
}

func TestLineageBuildSnapshot(t *testing.T) {
	repo := newFakeUserRepo()
	a := seedUser(t, repo, "aaa", nil, nil, nil)
	b := seedUser(t, repo, "bbb", nil, nil, nil)
	r := seedUser(t, repo, "rrr", &a.ID, &b.ID, nil)

	svc := NewLineageService(repo, zap.NewNop())
	lin, err := svc.Build(context.Background(), &r.ID)
	require.NoError(t, err)

	require.NotNil(t, lin.L1)
	require.Equal(t, r.ID, *lin.L1)
	require.NotNil(t, lin.L2)
	require.Equal(t, a.ID, *lin.L2, "new user's L2 is the referrer's L1")
	require.NotNil(t, lin.L3)
	require.Equal(t, b.ID, *lin.L3, "new user's L3 is the referrer's L2")
}

func TestLineageBuildShortChain(t *testing.T) {
	repo := newFakeUserRepo()
	root := seedUser(t, repo, "root", nil, nil, nil)

	svc := NewLineageService(repo, zap.NewNop())
	lin, err := svc.Build(context.Background(), &root.ID)
	require.NoError(t, err)
	require.Equal(t, root.ID, *lin.L1)
	require.Nil(t, lin.L2)
	require.Nil(t, lin.L3)
}
