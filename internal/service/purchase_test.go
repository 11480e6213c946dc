package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/offerbot/internal/store"
)

type fakeOffers struct {
	byID map[string]store.Offer
}

func (f *fakeOffers) GetByID(_ context.Context, id string) (store.Offer, error) {
	o, ok := f.byID[id]
	if !ok {
		return store.Offer{}, store.ErrNotFound
	}
	return o, nil
}

type fakeOrders struct {
	created []store.Order
}

func (f *fakeOrders) Create(_ context.Context, o store.Order) error {
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) GetByPayload(_ context.Context, payload string) (store.Order, error) {
	for _, o := range f.created {
		if o.Payload == payload {
			return o, nil
		}
	}
	return store.Order{}, store.ErrNotFound
}

type fakeDemo struct {
	allowed map[int64]bool
}

func (f *fakeDemo) Allowed(_ context.Context, userID int64) (bool, error) {
	return f.allowed[userID], nil
}

type sentInvoice struct {
	userID int64
	inv    Invoice
}

type fakeInvoicer struct {
	sent []sentInvoice
	err  error
}

func (f *fakeInvoicer) SendInvoice(_ context.Context, userID int64, inv Invoice) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentInvoice{userID: userID, inv: inv})
	return nil
}

func testOffer() store.Offer {
	return store.Offer{
		ID:          "offer-1",
		Title:       "Express 3 picks",
		Description: "secret content",
		Price:       70000,
	}
}

func newTestPurchase(t *testing.T) (*Purchase, *fakeOrders, *fakeInvoicer, *fakeDemo) {
	t.Helper()
	orders := &fakeOrders{}
	invoicer := &fakeInvoicer{}
	demo := &fakeDemo{allowed: map[int64]bool{}}
	p := NewPurchase(
		&fakeOffers{byID: map[string]store.Offer{"offer-1": testOffer()}},
		orders,
		demo,
		PurchaseOptions{
			Currency: "RUB",
			Clock:    func() time.Time { return time.Unix(1_700_000_000, 0) },
		},
	)
	p.SetInvoiceSender(invoicer)
	return p, orders, invoicer, demo
}

func TestInitiateIssuesInvoice(t *testing.T) {
	p, orders, invoicer, _ := newTestPurchase(t)

	res, err := p.Initiate(context.Background(), 10, "offer-1")
	require.NoError(t, err)
	require.True(t, res.Invoiced)
	assert.False(t, res.Demo)
	assert.Empty(t, orders.created, "no order before payment")

	require.Len(t, invoicer.sent, 1)
	inv := invoicer.sent[0].inv
	assert.Equal(t, int64(10), invoicer.sent[0].userID)
	assert.Equal(t, "Express 3 picks", inv.Title)
	assert.Equal(t, int64(70000), inv.Price)
	assert.Equal(t, "RUB", inv.Currency)
	assert.NotEmpty(t, inv.Payload)
	assert.Equal(t, res.Payload, inv.Payload)
	// The hidden content must never leak onto the invoice.
	assert.NotEqual(t, "secret content", inv.Description)
	assert.NotEmpty(t, inv.Description)
}

func TestInitiateRateLimited(t *testing.T) {
	orders := &fakeOrders{}
	invoicer := &fakeInvoicer{}
	p := NewPurchase(
		&fakeOffers{byID: map[string]store.Offer{"offer-1": testOffer()}},
		orders,
		&fakeDemo{allowed: map[int64]bool{}},
		PurchaseOptions{
			Cooldown: 10 * time.Second,
			Currency: "RUB",
			Clock:    func() time.Time { return time.Unix(1_700_000_000, 0) },
		},
	)
	p.SetInvoiceSender(invoicer)

	_, err := p.Initiate(context.Background(), 10, "offer-1")
	require.NoError(t, err)

	_, err = p.Initiate(context.Background(), 10, "offer-1")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Len(t, invoicer.sent, 1, "blocked attempt must not invoice")
	assert.Empty(t, orders.created)
}

func TestInitiateUnknownOffer(t *testing.T) {
	p, orders, invoicer, _ := newTestPurchase(t)

	_, err := p.Initiate(context.Background(), 10, "nope")
	require.ErrorIs(t, err, ErrOfferNotFound)
	assert.Empty(t, invoicer.sent)
	assert.Empty(t, orders.created)
}

func TestInitiateDemoBypassesPayment(t *testing.T) {
	p, orders, invoicer, demo := newTestPurchase(t)
	demo.allowed[10] = true

	res, err := p.Initiate(context.Background(), 10, "offer-1")
	require.NoError(t, err)
	require.True(t, res.Demo)
	assert.False(t, res.Invoiced)
	assert.Empty(t, invoicer.sent, "demo grant must not touch the payment provider")

	require.Len(t, orders.created, 1)
	ord := orders.created[0]
	assert.True(t, ord.IsDemo)
	assert.Equal(t, store.StatusPaid, ord.Status)
	assert.Equal(t, int64(0), ord.PaidAmount)
	assert.Equal(t, "offer-1", ord.OfferID)
	assert.Equal(t, res.Order.ID, ord.ID)
}

func TestInitiateInvoiceFailureLeavesNoPending(t *testing.T) {
	p, orders, invoicer, _ := newTestPurchase(t)
	invoicer.err = errors.New("provider down")

	_, err := p.Initiate(context.Background(), 10, "offer-1")
	require.Error(t, err)

	var coded *Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, "INVOICE_CREATION_FAILED", coded.Code())
	assert.Empty(t, orders.created)
	assert.Equal(t, 0, p.pending.Len(), "failed issuance must leave no residue")
}

func TestConfirmDisclosesContent(t *testing.T) {
	p, orders, _, _ := newTestPurchase(t)

	res, err := p.Initiate(context.Background(), 10, "offer-1")
	require.NoError(t, err)

	receipt, err := p.Confirm(context.Background(), Confirmation{
		UserID:   10,
		Payload:  res.Payload,
		ChargeID: "charge-1",
		Amount:   70000,
		Currency: "RUB",
	})
	require.NoError(t, err)
	require.True(t, receipt.Attributed)
	assert.False(t, receipt.Duplicate)
	require.NotNil(t, receipt.Offer)
	assert.Equal(t, "secret content", receipt.Description)

	require.Len(t, orders.created, 1)
	ord := orders.created[0]
	assert.Equal(t, "charge-1", ord.Payload)
	assert.Equal(t, int64(70000), ord.PaidAmount)
	assert.Equal(t, "offer-1", ord.OfferID)
	assert.False(t, ord.IsDemo)
	assert.Equal(t, 0, p.pending.Len(), "confirmation must consume the pending attempt")
}

func TestConfirmDuplicateChargeRecordedOnce(t *testing.T) {
	p, orders, _, _ := newTestPurchase(t)

	res, err := p.Initiate(context.Background(), 10, "offer-1")
	require.NoError(t, err)

	conf := Confirmation{
		UserID:   10,
		Payload:  res.Payload,
		ChargeID: "charge-1",
		Amount:   70000,
		Currency: "RUB",
	}
	first, err := p.Confirm(context.Background(), conf)
	require.NoError(t, err)

	second, err := p.Confirm(context.Background(), conf)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Len(t, orders.created, 1, "replayed notification must not insert twice")
}

// racyOrders simulates a duplicate notification that slips past the dedup
// lookup and loses the insert to a concurrent writer.
type racyOrders struct {
	fakeOrders
	missedLookups int
}

func (f *racyOrders) GetByPayload(ctx context.Context, payload string) (store.Order, error) {
	if f.missedLookups > 0 {
		f.missedLookups--
		return store.Order{}, store.ErrNotFound
	}
	return f.fakeOrders.GetByPayload(ctx, payload)
}

func (f *racyOrders) Create(ctx context.Context, o store.Order) error {
	for _, existing := range f.created {
		if existing.Payload == o.Payload {
			return store.ErrDuplicate
		}
	}
	return f.fakeOrders.Create(ctx, o)
}

func TestConfirmConcurrentDuplicateResolvedByStore(t *testing.T) {
	winner := store.Order{
		ID:         "order-1",
		UserID:     10,
		OfferID:    "offer-1",
		Status:     store.StatusPaid,
		Payload:    "charge-1",
		PaidAmount: 70000,
	}
	orders := &racyOrders{missedLookups: 1}
	orders.created = []store.Order{winner}

	p := NewPurchase(
		&fakeOffers{byID: map[string]store.Offer{"offer-1": testOffer()}},
		orders,
		&fakeDemo{allowed: map[int64]bool{}},
		PurchaseOptions{Currency: "RUB"},
	)

	receipt, err := p.Confirm(context.Background(), Confirmation{
		UserID:   10,
		Payload:  "never-pending",
		ChargeID: "charge-1",
		Amount:   70000,
		Currency: "RUB",
	})
	require.NoError(t, err)
	assert.True(t, receipt.Duplicate)
	assert.Equal(t, winner.ID, receipt.Order.ID)
	assert.Len(t, orders.created, 1, "losing insert must not add a row")
}

func TestConfirmUnattributedStillRecords(t *testing.T) {
	p, orders, _, _ := newTestPurchase(t)

	receipt, err := p.Confirm(context.Background(), Confirmation{
		UserID:   10,
		Payload:  "never-issued",
		ChargeID: "charge-9",
		Amount:   500,
		Currency: "RUB",
	})
	require.NoError(t, err)
	assert.False(t, receipt.Attributed)
	assert.Nil(t, receipt.Offer)
	assert.Empty(t, receipt.Description)

	require.Len(t, orders.created, 1)
	assert.Empty(t, orders.created[0].OfferID)
	assert.Equal(t, int64(500), orders.created[0].PaidAmount)
}

func TestAuthorizeAlwaysApproves(t *testing.T) {
	p, _, _, _ := newTestPurchase(t)

	err := p.Authorize(context.Background(), PreAuthorization{
		UserID:   10,
		Payload:  "unknown",
		Currency: "RUB",
		Total:    70000,
	})
	assert.NoError(t, err)
}
