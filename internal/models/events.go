package models

import "time"

const (
	TopicOrderSubmitted   = "kiosk_order_submitted"
	TopicCheckoutFailed   = "kiosk_checkout_failed"
	TopicPaymentConfirmed = "kiosk_payment_confirmed"
	TopicSessionReset     = "kiosk_session_reset"
)

// KioskEvent is a flat telemetry record emitted on checkout lifecycle
// transitions. Timestamp is unix seconds; the archive outputs partition on it.
type KioskEvent struct {
	Timestamp     int64   `json:"timestamp"`
	SessionID     string  `json:"session_id"`
	ReceiptID     string  `json:"receipt_id,omitempty"`
	ItemCount     int     `json:"item_count,omitempty"`
	Subtotal      float64 `json:"subtotal,omitempty"`
	CouponSavings float64 `json:"coupon_savings,omitempty"`
	Total         float64 `json:"total,omitempty"`
	CouponCode    string  `json:"coupon_code,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// NewKioskEvent stamps an event with the current time.
func NewKioskEvent(sessionID string) KioskEvent {
	return KioskEvent{Timestamp: time.Now().Unix(), SessionID: sessionID}
}
