package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/offerbot/internal/store"
)

type fakeOfferStore struct {
	byID map[string]store.Offer
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{byID: map[string]store.Offer{}}
}

func (f *fakeOfferStore) Create(_ context.Context, o store.Offer) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOfferStore) GetByID(_ context.Context, id string) (store.Offer, error) {
	o, ok := f.byID[id]
	if !ok {
		return store.Offer{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOfferStore) List(_ context.Context) ([]store.Offer, error) {
	out := make([]store.Offer, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOfferStore) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeOfferStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeStatsReader struct {
	stats    store.OrderStats
	dayStart time.Time
}

func (f *fakeStatsReader) Stats(_ context.Context, dayStart time.Time) (store.OrderStats, error) {
	f.dayStart = dayStart
	return f.stats, nil
}

func TestCreateOfferTrimsAndPersists(t *testing.T) {
	offers := newFakeOfferStore()
	cat := NewCatalog(offers, &fakeStatsReader{}, nil)

	offer, err := cat.CreateOffer(context.Background(), "  Express 5 picks ", " Five tips ", 120000)
	require.NoError(t, err)
	assert.NotEmpty(t, offer.ID)
	assert.Equal(t, "Express 5 picks", offer.Title)
	assert.Equal(t, "Five tips", offer.Description)
	assert.Equal(t, int64(120000), offer.Price)

	stored, err := offers.GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer, stored)
}

func TestCreateOfferValidation(t *testing.T) {
	cat := NewCatalog(newFakeOfferStore(), &fakeStatsReader{}, nil)

	cases := []struct {
		name        string
		title, desc string
		price       int64
	}{
		{"empty title", "  ", "desc", 100},
		{"empty description", "title", "", 100},
		{"negative price", "title", "desc", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cat.CreateOffer(context.Background(), tc.title, tc.desc, tc.price)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeleteOfferNotFound(t *testing.T) {
	cat := NewCatalog(newFakeOfferStore(), &fakeStatsReader{}, nil)
	err := cat.DeleteOffer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestStatsUsesUTCDayStart(t *testing.T) {
	reader := &fakeStatsReader{stats: store.OrderStats{TotalOrders: 3, TotalRevenue: 210000}}
	offers := newFakeOfferStore()
	clock := func() time.Time {
		return time.Date(2026, 9, 1, 15, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	}
	cat := NewCatalog(offers, reader, clock)

	stats, err := cat.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Orders.TotalOrders)
	assert.Equal(t, int64(0), stats.Offers)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), reader.dayStart)
}
