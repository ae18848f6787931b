// Package pricing resolves automatic per-item discounts and cart-level coupon
// savings into final totals.
//
// Automatic discounts are first-match-wins over the merchant's configured
// list, not best-value-wins. Reordering the list changes which discount
// applies even when a later entry would save more. That ordering is the
// merchant-facing contract and is kept as-is.
package pricing

import (
	"errors"
	"strings"

	"github.com/paykiosk/paykiosk/internal/models"
)

// ErrCouponNotFound is the recoverable "invalid coupon code" error. It leaves
// the engine state untouched; the customer may retry immediately.
var ErrCouponNotFound = errors.New("pricing: invalid coupon code")

// Totals is the cart pricing summary. Total is always Subtotal minus
// CouponSavings, floored at zero.
type Totals struct {
	Subtotal      float64
	CouponSavings float64
	Total         float64
}

// Engine evaluates the merchant's discount and coupon configuration.
type Engine struct {
	discounts []models.Discount
	coupons   []models.Discount
	applied   *models.Discount
}

func NewEngine(discounts, coupons []models.Discount) *Engine {
	return &Engine{discounts: discounts, coupons: coupons}
}

// ItemDiscount returns the first discount in configured order whose scope
// matches the item, or nil.
func (e *Engine) ItemDiscount(item *models.CatalogItem) *models.Discount {
	for i := range e.discounts {
		if e.discounts[i].MatchesItem(item) {
			return &e.discounts[i]
		}
	}
	return nil
}

// DiscountedPrice applies the item's resolved discount to its base price.
// Discounts carrying a minimum requirement never apply per item; they are
// only meaningful as cart-level coupons, so the base price passes through.
// buy_x_get_y has no numeric effect and also passes through.
func (e *Engine) DiscountedPrice(item *models.CatalogItem, basePrice float64) (price, savings float64) {
	discount := e.ItemDiscount(item)
	if discount == nil || discount.MinRequirement != models.RequireNone {
		return basePrice, 0
	}
	price = basePrice
	switch discount.Type {
	case models.DiscountPercentage:
		price = basePrice * (1 - discount.Value/100)
	case models.DiscountFixedAmount:
		price = basePrice - discount.Value
		if price < 0 {
			price = 0
		}
	}
	return price, basePrice - price
}

// ApplyCouponCode activates the coupon matching the code, case-insensitively.
// An unknown code returns ErrCouponNotFound and changes nothing.
func (e *Engine) ApplyCouponCode(code string) error {
	for i := range e.coupons {
		if e.coupons[i].Code != "" && strings.EqualFold(e.coupons[i].Code, code) {
			e.applied = &e.coupons[i]
			return nil
		}
	}
	return ErrCouponNotFound
}

// RemoveCoupon clears the applied coupon.
func (e *Engine) RemoveCoupon() {
	e.applied = nil
}

// AppliedCoupon returns the active coupon, or nil.
func (e *Engine) AppliedCoupon() *models.Discount {
	return e.applied
}

// Totals evaluates the applied coupon against the raw subtotal and total cart
// quantity. An applied coupon whose minimum requirement is unmet contributes
// zero savings but stays applied; it kicks in as soon as the cart qualifies.
func (e *Engine) Totals(rawSubtotal float64, totalQty int) Totals {
	t := Totals{Subtotal: rawSubtotal}
	if e.applied != nil && e.applied.RequirementMet(rawSubtotal, totalQty) {
		switch e.applied.Type {
		case models.DiscountPercentage:
			t.CouponSavings = rawSubtotal * e.applied.Value / 100
		case models.DiscountFixedAmount:
			t.CouponSavings = e.applied.Value
			if t.CouponSavings > rawSubtotal {
				t.CouponSavings = rawSubtotal
			}
		}
	}
	t.Total = t.Subtotal - t.CouponSavings
	if t.Total < 0 {
		t.Total = 0
	}
	return t
}
