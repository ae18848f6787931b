package models

import "time"

// CheckoutState is the kiosk checkout finite state machine.
type CheckoutState string

const (
	// StateIdle: browsing, no checkout in progress.
	StateIdle CheckoutState = "idle"
	// StateSubmitting: checkout entered, order submission in flight.
	StateSubmitting CheckoutState = "submitting"
	// StateAwaitingPayment: receipt issued, QR displayed, polling for payment.
	StateAwaitingPayment CheckoutState = "awaiting_payment"
	// StatePaymentConfirmed: payment seen; auto-reset timer is running.
	StatePaymentConfirmed CheckoutState = "payment_confirmed"
	// StateFailed: order submission failed; recoverable only by cancelling
	// and re-entering checkout from scratch.
	StateFailed CheckoutState = "failed"
)

// Receipt identifies a submitted order on the backend. Its creation time is
// echoed back on every payment-status poll.
type Receipt struct {
	ReceiptID string    `json:"receiptId"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderLine is a cart line flattened for order submission.
type OrderLine struct {
	ID                  string             `json:"id"`
	Qty                 int                `json:"qty"`
	SelectedModifiers   []SelectedModifier `json:"selectedModifiers,omitempty"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	LineTotal           float64            `json:"lineTotal"`
}

// OrderSubmission is the request body for the order API.
type OrderSubmission struct {
	Items         []OrderLine     `json:"items"`
	CouponCode    string          `json:"couponCode,omitempty"`
	AppliedCoupon *CouponSnapshot `json:"appliedCoupon,omitempty"`
	ShopSlug      string          `json:"shopSlug,omitempty"`
}

// PaymentQuery is the request body for the payment-status endpoint.
type PaymentQuery struct {
	Wallet    string    `json:"wallet"`
	ReceiptID string    `json:"receiptId"`
	Since     time.Time `json:"since"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
}

// PaymentStatus is the payment-status response.
type PaymentStatus struct {
	OK   bool `json:"ok"`
	Paid bool `json:"paid"`
}

// CheckoutSession is an immutable snapshot of the checkout in progress. The
// orchestrator owns the live copy; callers only ever see value copies.
type CheckoutSession struct {
	State     CheckoutState
	Receipt   *Receipt
	QRPayload string
	Total     float64
	Paid      bool
	Err       string
}
