package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/offerbot/internal/store"
)

type fakeDemoStore struct {
	grants map[int64]store.DemoGrant
}

func newFakeDemoStore() *fakeDemoStore {
	return &fakeDemoStore{grants: map[int64]store.DemoGrant{}}
}

func (f *fakeDemoStore) Allowed(_ context.Context, userID int64) (bool, error) {
	_, ok := f.grants[userID]
	return ok, nil
}

func (f *fakeDemoStore) List(_ context.Context) ([]store.DemoGrant, error) {
	out := make([]store.DemoGrant, 0, len(f.grants))
	for _, g := range f.grants {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeDemoStore) Grant(_ context.Context, userID, grantedBy int64, grantedAt time.Time) error {
	f.grants[userID] = store.DemoGrant{UserID: userID, GrantedBy: grantedBy, GrantedAt: grantedAt}
	return nil
}

func (f *fakeDemoStore) Revoke(_ context.Context, userID int64) (bool, error) {
	_, ok := f.grants[userID]
	delete(f.grants, userID)
	return ok, nil
}

func TestDemoGrantAndCheck(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	grants := newFakeDemoStore()
	demo := NewDemo(grants, func() time.Time { return now })

	require.NoError(t, demo.Grant(context.Background(), 42, 1))

	ok, err := demo.Allowed(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)

	g := grants.grants[42]
	assert.Equal(t, int64(1), g.GrantedBy)
	assert.Equal(t, now, g.GrantedAt)
}

func TestDemoGrantRejectsZeroUser(t *testing.T) {
	demo := NewDemo(newFakeDemoStore(), nil)
	err := demo.Grant(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDemoRevoke(t *testing.T) {
	demo := NewDemo(newFakeDemoStore(), nil)
	require.NoError(t, demo.Grant(context.Background(), 42, 1))

	removed, err := demo.Revoke(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = demo.Revoke(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := demo.Allowed(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}
