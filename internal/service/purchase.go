package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/offerbot/core/logger"
	"github.com/m3rciful/offerbot/internal/store"
	"log/slog"
)

const purchaseComponent = "service.purchase"

// genericInvoiceDescription is what buyers see on the invoice itself. The
// real offer description must never reach the payment provider.
const genericInvoiceDescription = "Access to the selected offer. The content is delivered right after payment."

// OfferGetter resolves offers for purchase attempts.
type OfferGetter interface {
	GetByID(ctx context.Context, id string) (store.Offer, error)
}

// OrderWriter persists completed purchases and serves the confirmation
// dedup lookup.
type OrderWriter interface {
	Create(ctx context.Context, o store.Order) error
	GetByPayload(ctx context.Context, payload string) (store.Order, error)
}

// DemoChecker answers whether a user holds a standing fee-free grant.
type DemoChecker interface {
	Allowed(ctx context.Context, userID int64) (bool, error)
}

// Invoice describes a checkout request handed to the payment collaborator.
type Invoice struct {
	Title         string
	Description   string
	Payload       string
	Currency      string
	Price         int64
	MaxTip        int64
	SuggestedTips []int64
}

// InvoiceSender issues invoices through the external payment collaborator.
// A synchronous error means issuance failed and the attempt is terminal.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, userID int64, inv Invoice) error
}

// PurchaseOptions configures the orchestrator.
type PurchaseOptions struct {
	Cooldown      time.Duration
	Currency      string
	MaxTip        int64
	SuggestedTips []int64
	// Clock is injectable for tests; defaults to time.Now.
	Clock func() time.Time
}

// Purchase drives a purchase attempt from offer selection to content
// release: cooldown gate, offer lookup, demo bypass or invoice issuance,
// pre-authorization and payment confirmation.
type Purchase struct {
	offers   OfferGetter
	orders   OrderWriter
	demo     DemoChecker
	invoices InvoiceSender

	opts    PurchaseOptions
	now     func() time.Time
	gate    *cooldownGate
	pending *pendingBook
}

// NewPurchase constructs the orchestrator. The invoice sender is wired
// separately because the transport only exists once the bot is running.
func NewPurchase(offers OfferGetter, orders OrderWriter, demo DemoChecker, opts PurchaseOptions) *Purchase {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Purchase{
		offers:  offers,
		orders:  orders,
		demo:    demo,
		opts:    opts,
		now:     now,
		gate:    newCooldownGate(opts.Cooldown, now),
		pending: newPendingBook(),
	}
}

// SetInvoiceSender wires the payment collaborator. Called once at bot start,
// before any update is processed.
func (s *Purchase) SetInvoiceSender(inv InvoiceSender) {
	s.invoices = inv
}

// InitiateResult reports the outcome of a purchase attempt. Exactly one of
// Demo or Invoiced is set: a demo grant releases content immediately, a
// regular attempt only issues an invoice.
type InitiateResult struct {
	Demo     bool
	Invoiced bool
	Offer    store.Offer
	Order    store.Order
	Payload  string
}

// Initiate starts a purchase attempt for the given user and offer.
func (s *Purchase) Initiate(ctx context.Context, userID int64, offerID string) (*InitiateResult, error) {
	if !s.gate.Allow(userID) {
		logger.Warn(ctx, purchaseComponent, "purchase.rate_limited",
			slog.String("status", "rate_limited"),
			slog.Int64("user_id", userID),
			slog.String("offer_id", offerID),
		)
		return nil, ErrRateLimited
	}

	offer, err := s.offers.GetByID(ctx, offerID)
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn(ctx, purchaseComponent, "purchase.offer_missing",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("offer_id", offerID),
		)
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("purchase: offer lookup: %w", err)
	}

	allowed, err := s.demo.Allowed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase: demo lookup: %w", err)
	}
	if allowed {
		return s.releaseDemo(ctx, userID, offer)
	}

	payload := uuid.NewString()
	inv := Invoice{
		Title:         offer.Title,
		Description:   genericInvoiceDescription,
		Payload:       payload,
		Currency:      s.opts.Currency,
		Price:         offer.Price,
		MaxTip:        s.opts.MaxTip,
		SuggestedTips: s.opts.SuggestedTips,
	}
	sender := s.invoices
	if sender == nil {
		return nil, invoiceCreationFailed(errors.New("invoice sender not configured"))
	}
	if err := sender.SendInvoice(ctx, userID, inv); err != nil {
		logger.Error(ctx, purchaseComponent, "purchase.invoice_failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("offer_id", offer.ID),
			slog.String("err", err.Error()),
		)
		return nil, invoiceCreationFailed(err)
	}

	// Registered only after successful issuance so a failed attempt leaves
	// no residual state.
	s.pending.Put(payload, pendingAttempt{UserID: userID, OfferID: offer.ID, IssuedAt: s.now()})
	logger.Info(ctx, purchaseComponent, "purchase.invoice_issued",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("offer_id", offer.ID),
		slog.Int64("price", offer.Price),
		slog.Int("pending_count", s.pending.Len()),
	)
	return &InitiateResult{Invoiced: true, Offer: offer, Payload: payload}, nil
}

func (s *Purchase) releaseDemo(ctx context.Context, userID int64, offer store.Offer) (*InitiateResult, error) {
	ord := store.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		OfferID:    offer.ID,
		Status:     store.StatusPaid,
		Payload:    uuid.NewString(),
		IsDemo:     true,
		PaidAmount: 0,
		CreatedAt:  s.now(),
	}
	if err := s.orders.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("purchase: demo order: %w", err)
	}
	logger.Info(ctx, purchaseComponent, "purchase.demo_released",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("offer_id", offer.ID),
		slog.String("order_id", ord.ID),
		slog.Bool("is_demo", true),
	)
	return &InitiateResult{Demo: true, Offer: offer, Order: ord}, nil
}

// PreAuthorization carries the synchronous approve-or-deny checkpoint data.
type PreAuthorization struct {
	UserID   int64
	Payload  string
	Currency string
	Total    int64
}

// Authorize is the pre-checkout hook. Current policy always approves; the
// hook exists so future policy such as price revalidation can intercept.
func (s *Purchase) Authorize(ctx context.Context, pre PreAuthorization) error {
	if pre.Payload != "" {
		if _, ok := s.pending.Peek(pre.Payload); !ok {
			logger.Warn(ctx, purchaseComponent, "checkout.unknown_payload",
				slog.Int64("user_id", pre.UserID),
				slog.String("payload", pre.Payload),
			)
		}
	}
	logger.Debug(ctx, purchaseComponent, "checkout.approved",
		slog.String("status", "ok"),
		slog.Int64("user_id", pre.UserID),
		slog.Int64("amount", pre.Total),
		slog.String("currency", pre.Currency),
	)
	return nil
}

// Confirmation carries a successful-payment notification.
type Confirmation struct {
	UserID   int64
	Payload  string
	ChargeID string
	Amount   int64
	Currency string
}

// Receipt is the outcome of a confirmed payment. Description is empty when
// the confirmation could not be attributed to a pending attempt; content
// disclosure then degrades gracefully instead of failing the confirmation.
type Receipt struct {
	Order       store.Order
	Offer       *store.Offer
	Description string
	Attributed  bool
	Duplicate   bool
}

// Confirm records a confirmed payment and returns the content to disclose.
// Confirmations are deduplicated by charge id: a repeated notification
// returns the already-recorded order without a second insert.
func (s *Purchase) Confirm(ctx context.Context, conf Confirmation) (*Receipt, error) {
	existing, err := s.orders.GetByPayload(ctx, conf.ChargeID)
	if err == nil {
		logger.Warn(ctx, purchaseComponent, "payment.duplicate",
			slog.Int64("user_id", conf.UserID),
			slog.String("charge_id", conf.ChargeID),
			slog.String("order_id", existing.ID),
		)
		return &Receipt{Order: existing, Duplicate: true}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("purchase: dedup lookup: %w", err)
	}

	att, attributed := s.pending.Take(conf.Payload)

	var (
		offerID     string
		offer       *store.Offer
		description string
	)
	if attributed {
		offerID = att.OfferID
		o, err := s.offers.GetByID(ctx, att.OfferID)
		switch {
		case err == nil:
			offer = &o
			description = o.Description
			if conf.Amount < o.Price {
				// Tips may raise the amount but never lower it.
				logger.Warn(ctx, purchaseComponent, "payment.amount_below_quote",
					slog.Int64("user_id", conf.UserID),
					slog.String("offer_id", o.ID),
					slog.Int64("amount", conf.Amount),
					slog.Int64("price", o.Price),
				)
			}
		case errors.Is(err, store.ErrNotFound):
			// Offer deleted between issuance and confirmation; the order is
			// still recorded against the stale id.
			logger.Warn(ctx, purchaseComponent, "payment.offer_gone",
				slog.Int64("user_id", conf.UserID),
				slog.String("offer_id", att.OfferID),
			)
		default:
			return nil, fmt.Errorf("purchase: confirm offer lookup: %w", err)
		}
	} else {
		logger.Warn(ctx, purchaseComponent, "payment.unattributed",
			slog.String("err_code", "UNATTRIBUTED_PAYMENT"),
			slog.Int64("user_id", conf.UserID),
			slog.String("charge_id", conf.ChargeID),
		)
	}

	ord := store.Order{
		ID:         uuid.NewString(),
		UserID:     conf.UserID,
		OfferID:    offerID,
		Status:     store.StatusPaid,
		// The charge id becomes the permanent receipt reference.
		Payload:    conf.ChargeID,
		IsDemo:     false,
		PaidAmount: conf.Amount,
		CreatedAt:  s.now(),
	}
	if err := s.orders.Create(ctx, ord); err != nil {
		// The unique payload index catches the race where two duplicate
		// notifications both pass the lookup above.
		if errors.Is(err, store.ErrDuplicate) {
			existing, lookupErr := s.orders.GetByPayload(ctx, conf.ChargeID)
			if lookupErr != nil {
				return nil, fmt.Errorf("purchase: duplicate lookup: %w", lookupErr)
			}
			logger.Warn(ctx, purchaseComponent, "payment.duplicate",
				slog.Int64("user_id", conf.UserID),
				slog.String("charge_id", conf.ChargeID),
				slog.String("order_id", existing.ID),
			)
			return &Receipt{Order: existing, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("purchase: confirm order: %w", err)
	}

	logger.Info(ctx, purchaseComponent, "payment.confirmed",
		slog.String("status", "ok"),
		slog.Int64("user_id", conf.UserID),
		slog.String("order_id", ord.ID),
		slog.String("charge_id", conf.ChargeID),
		slog.Int64("amount", conf.Amount),
		slog.String("currency", conf.Currency),
	)
	return &Receipt{
		Order:       ord,
		Offer:       offer,
		Description: description,
		Attributed:  attributed && description != "",
	}, nil
}
