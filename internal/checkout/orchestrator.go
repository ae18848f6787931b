// Package checkout drives the kiosk payment flow: order submission, QR portal
// link generation, payment-status polling and the post-payment auto-reset.
//
// The flow is a small state machine (idle -> submitting -> awaiting_payment ->
// payment_confirmed, with a failed branch off submission). Timers are explicit
// cancellable tasks with one handle each, torn down deterministically when the
// state that owns them is left.
package checkout

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/paykiosk/paykiosk/internal/models"
)

// OrderAPI submits an order and returns the backend receipt.
// Implementations return an error carrying the backend's human-readable
// message when the submission is rejected.
type OrderAPI interface {
	SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*models.Receipt, error)
}

// PaymentAPI answers whether a receipt has been paid.
type PaymentAPI interface {
	CheckPayment(ctx context.Context, query models.PaymentQuery) (models.PaymentStatus, error)
}

// Journal optionally records submissions and confirmations for merchant-side
// reconciliation. Journal failures never affect the checkout flow.
type Journal interface {
	RecordSubmission(ctx context.Context, receipt models.Receipt, sub models.OrderSubmission, total float64) error
	MarkPaid(ctx context.Context, receiptID string, paidAt time.Time) error
}

// Emitter optionally receives checkout lifecycle telemetry.
type Emitter interface {
	Emit(topic string, event models.KioskEvent)
}

// Config carries the merchant identity and flow timings. Zero durations fall
// back to the production defaults (7s polling, 15s auto-reset).
type Config struct {
	PortalOrigin   string
	MerchantWallet string
	Currency       string
	PollInterval   time.Duration
	ResetDelay     time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = models.DefaultPollInterval
	}
	if c.ResetDelay <= 0 {
		c.ResetDelay = models.DefaultResetDelay
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	return c
}

// PortalURL builds the payment portal deep link encoded into the QR code.
// The shape is a fixed contract with the wallet app:
// {origin}/portal/{receiptId}?recipient={merchantWallet}&mode=kiosk
func PortalURL(origin, receiptID, merchantWallet string) string {
	return fmt.Sprintf("%s/portal/%s?recipient=%s&mode=kiosk",
		origin, url.PathEscape(receiptID), url.QueryEscape(merchantWallet))
}

// Snapshot is the cart state a checkout attempt consumes. The orchestrator
// never reaches back into the live cart; it works off this copy alone.
type Snapshot struct {
	Lines         []models.CartLine
	Coupon        *models.Discount
	Subtotal      float64
	CouponSavings float64
	Total         float64
	ShopSlug      string
}

// Orchestrator owns the checkout session. All state transitions run through
// its methods; callers observe the session only via value snapshots.
type Orchestrator struct {
	cfg      Config
	orders   OrderAPI
	payments PaymentAPI
	journal  Journal
	emitter  Emitter

	// onReset clears the surrounding kiosk state (cart, coupon) when the
	// session returns to idle, on cancellation or auto-reset.
	onReset func()

	mu         sync.Mutex
	session    models.CheckoutSession
	sessionID  string
	pollStop   chan struct{}
	resetTimer *time.Timer
	closed     bool
}

// New creates an idle orchestrator. journal and emitter may be nil. onReset
// may be nil when no surrounding state needs clearing.
func New(cfg Config, orders OrderAPI, payments PaymentAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg.withDefaults(),
		orders:   orders,
		payments: payments,
		session:  models.CheckoutSession{State: models.StateIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

func WithJournal(j Journal) Option   { return func(o *Orchestrator) { o.journal = j } }
func WithEmitter(e Emitter) Option   { return func(o *Orchestrator) { o.emitter = e } }
func WithSessionID(id string) Option { return func(o *Orchestrator) { o.sessionID = id } }
func WithResetHook(fn func()) Option { return func(o *Orchestrator) { o.onReset = fn } }

// Session returns a value copy of the current checkout session.
func (o *Orchestrator) Session() models.CheckoutSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.session
	if o.session.Receipt != nil {
		r := *o.session.Receipt
		s.Receipt = &r
	}
	return s
}

// State returns the current checkout state.
func (o *Orchestrator) State() models.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.State
}

// Begin enters checkout with a cart snapshot: it clears any prior error,
// receipt and paid flag, submits the order, and on success exposes the portal
// QR payload and starts payment polling. On failure it parks the session in
// the failed state with a user-visible message; no QR is produced and no
// polling starts. The submission call itself carries no client-side timeout.
func (o *Orchestrator) Begin(ctx context.Context, snap Snapshot) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return fmt.Errorf("checkout: orchestrator is closed")
	}
	if o.session.State != models.StateIdle {
		o.mu.Unlock()
		return fmt.Errorf("checkout: already in state %s", o.session.State)
	}
	o.session = models.CheckoutSession{
		State: models.StateSubmitting,
		Total: snap.Total,
	}
	o.mu.Unlock()

	sub := buildSubmission(snap)
	receipt, err := o.orders.SubmitOrder(ctx, sub)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.session.State != models.StateSubmitting {
		// Cancelled while the submission was in flight; drop the result.
		return nil
	}
	if err != nil {
		o.session.State = models.StateFailed
		o.session.Err = err.Error()
		o.emit(models.TopicCheckoutFailed, func(ev *models.KioskEvent) {
			ev.Error = err.Error()
			ev.Total = snap.Total
		})
		return err
	}

	o.session.Receipt = receipt
	o.session.QRPayload = PortalURL(o.cfg.PortalOrigin, receipt.ReceiptID, o.cfg.MerchantWallet)
	o.session.State = models.StateAwaitingPayment

	if o.journal != nil {
		if jerr := o.journal.RecordSubmission(ctx, *receipt, sub, snap.Total); jerr != nil {
			log.Printf("order journal write failed for receipt %s: %v", receipt.ReceiptID, jerr)
		}
	}
	o.emit(models.TopicOrderSubmitted, func(ev *models.KioskEvent) {
		ev.ReceiptID = receipt.ReceiptID
		ev.ItemCount = len(snap.Lines)
		ev.Subtotal = snap.Subtotal
		ev.CouponSavings = snap.CouponSavings
		ev.Total = snap.Total
		if snap.Coupon != nil {
			ev.CouponCode = snap.Coupon.Code
		}
	})

	o.startPollingLocked(*receipt, snap.Total)
	return nil
}

func buildSubmission(snap Snapshot) models.OrderSubmission {
	sub := models.OrderSubmission{
		Items:    make([]models.OrderLine, 0, len(snap.Lines)),
		ShopSlug: snap.ShopSlug,
	}
	for i := range snap.Lines {
		line := &snap.Lines[i]
		sub.Items = append(sub.Items, models.OrderLine{
			ID:                  line.Item.ID,
			Qty:                 line.Quantity,
			SelectedModifiers:   line.SelectedModifiers,
			SpecialInstructions: line.SpecialInstructions,
			LineTotal:           line.Total(),
		})
	}
	if snap.Coupon != nil {
		sub.CouponCode = snap.Coupon.Code
		couponSnap := snap.Coupon.Snapshot()
		sub.AppliedCoupon = &couponSnap
	}
	return sub
}

// startPollingLocked launches the payment poller: one immediate check, then a
// fixed-interval tick until paid, cancelled or closed. Callers hold o.mu.
func (o *Orchestrator) startPollingLocked(receipt models.Receipt, amount float64) {
	stop := make(chan struct{})
	o.pollStop = stop

	query := models.PaymentQuery{
		Wallet:    o.cfg.MerchantWallet,
		ReceiptID: receipt.ReceiptID,
		Since:     receipt.CreatedAt,
		Amount:    amount,
		Currency:  o.cfg.Currency,
	}

	go func() {
		o.pollOnce(query)
		ticker := time.NewTicker(o.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				o.pollOnce(query)
			}
		}
	}()
}

// pollOnce queries the payment status. Failures are logged and swallowed;
// the next tick retries. There is no retry cap or overall timeout while the
// checkout screen stays open.
func (o *Orchestrator) pollOnce(query models.PaymentQuery) {
	status, err := o.payments.CheckPayment(context.Background(), query)
	if err != nil {
		log.Printf("payment poll failed for receipt %s: %v", query.ReceiptID, err)
		return
	}
	if status.OK && status.Paid {
		o.markPaid(query.ReceiptID)
	}
}

// markPaid flips the monotonic paid flag and arms the auto-reset timer. A
// stale or duplicate confirmation is a no-op.
func (o *Orchestrator) markPaid(receiptID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.session.Paid || o.session.State != models.StateAwaitingPayment {
		return
	}
	o.session.Paid = true
	o.session.State = models.StatePaymentConfirmed
	o.stopPollingLocked()

	if o.journal != nil {
		if err := o.journal.MarkPaid(context.Background(), receiptID, time.Now()); err != nil {
			log.Printf("order journal paid update failed for receipt %s: %v", receiptID, err)
		}
	}
	o.emit(models.TopicPaymentConfirmed, func(ev *models.KioskEvent) {
		ev.ReceiptID = receiptID
		ev.Total = o.session.Total
	})

	o.resetTimer = time.AfterFunc(o.cfg.ResetDelay, o.autoReset)
}

func (o *Orchestrator) autoReset() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.resetLocked(models.TopicSessionReset)
	o.mu.Unlock()
}

// Cancel returns the kiosk to browsing from any non-idle state, discarding
// in-flight timers. The server-side order, if one was submitted, is left
// untouched; reconciliation happens elsewhere.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.session.State == models.StateIdle {
		return
	}
	o.resetLocked(models.TopicSessionReset)
}

// resetLocked tears down timers, clears the session and fires the reset hook.
func (o *Orchestrator) resetLocked(topic string) {
	o.stopPollingLocked()
	if o.resetTimer != nil {
		o.resetTimer.Stop()
		o.resetTimer = nil
	}
	receiptID := ""
	if o.session.Receipt != nil {
		receiptID = o.session.Receipt.ReceiptID
	}
	o.session = models.CheckoutSession{State: models.StateIdle}
	if o.onReset != nil {
		o.onReset()
	}
	o.emit(topic, func(ev *models.KioskEvent) {
		ev.ReceiptID = receiptID
	})
}

func (o *Orchestrator) stopPollingLocked() {
	if o.pollStop != nil {
		close(o.pollStop)
		o.pollStop = nil
	}
}

// Close tears the orchestrator down when the kiosk view goes away: active
// polling and the auto-reset timer are stopped synchronously and no further
// transitions are accepted.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.stopPollingLocked()
	if o.resetTimer != nil {
		o.resetTimer.Stop()
		o.resetTimer = nil
	}
}

func (o *Orchestrator) emit(topic string, fill func(*models.KioskEvent)) {
	if o.emitter == nil {
		return
	}
	ev := models.NewKioskEvent(o.sessionID)
	fill(&ev)
	o.emitter.Emit(topic, ev)
}
