// Package kiosk ties the engines together into one customer-facing session:
// catalog browsing, modifier selection, cart, pricing and checkout. A session
// lives in memory only and resets between customers.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lucsky/cuid"

	"github.com/paykiosk/paykiosk/internal/cart"
	"github.com/paykiosk/paykiosk/internal/checkout"
	"github.com/paykiosk/paykiosk/internal/client"
	"github.com/paykiosk/paykiosk/internal/models"
	"github.com/paykiosk/paykiosk/internal/pricing"
	"github.com/paykiosk/paykiosk/internal/selection"
)

// ErrRequiredUnmet blocks adding an item whose required modifier groups are
// not satisfied. The interaction layer disables the commit action on it.
var ErrRequiredUnmet = errors.New("kiosk: required modifier selections missing")

// ErrEmptyCart blocks checkout on an empty cart.
var ErrEmptyCart = errors.New("kiosk: cart is empty")

// Session is one kiosk terminal's in-memory state.
type Session struct {
	ID string

	items    []models.CatalogItem
	cart     *cart.Store
	pricing  *pricing.Engine
	checkout *checkout.Orchestrator
	shopSlug string
}

// NewSession builds a session over a normalized catalog and discount
// configuration. The reset hook wires the orchestrator's auto-reset and
// cancellation back into cart and coupon state.
func NewSession(cfg checkout.Config, shopSlug string, items []models.CatalogItem, discounts, coupons []models.Discount, orders checkout.OrderAPI, payments checkout.PaymentAPI, opts ...checkout.Option) *Session {
	s := &Session{
		ID:       cuid.New(),
		items:    items,
		cart:     cart.NewStore(),
		pricing:  pricing.NewEngine(discounts, coupons),
		shopSlug: shopSlug,
	}
	opts = append(opts,
		checkout.WithSessionID(s.ID),
		checkout.WithResetHook(func() {
			s.cart.Clear()
			s.pricing.RemoveCoupon()
		}),
	)
	s.checkout = checkout.New(cfg, orders, payments, opts...)
	return s
}

// LoadFromBackend fills catalog and discount state from the merchant backend.
// The inventory fetch is a fallback for kiosks booted without a pre-supplied
// item list.
func (s *Session) LoadFromBackend(ctx context.Context, backend *client.Backend) error {
	if len(s.items) == 0 {
		items, err := backend.FetchInventory(ctx)
		if err != nil {
			return fmt.Errorf("loading inventory: %w", err)
		}
		s.items = items
	}
	discounts, coupons, err := backend.FetchDiscounts(ctx)
	if err != nil {
		return fmt.Errorf("loading discounts: %w", err)
	}
	s.pricing = pricing.NewEngine(discounts, coupons)
	return nil
}

// Items returns the full catalog.
func (s *Session) Items() []models.CatalogItem {
	return s.items
}

// Categories lists the distinct item categories, sorted.
func (s *Session) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for i := range s.items {
		if c := s.items[i].Category; c != "" && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)
	return cats
}

// FilterItems narrows the catalog by category and a free-text query matched
// against name, description, category and tags.
func (s *Session) FilterItems(query, category string) []models.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.CatalogItem
	for i := range s.items {
		item := s.items[i]
		if category != "" && item.Category != category {
			continue
		}
		if q != "" && !matchesQuery(&item, q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item *models.CatalogItem, q string) bool {
	if strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Category), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Item looks an item up by id.
func (s *Session) Item(id string) (*models.CatalogItem, bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], true
		}
	}
	return nil, false
}

// OpenItem starts a modifier selection for an item, with the item's default
// modifiers pre-selected.
func (s *Session) OpenItem(id string) (*models.CatalogItem, *selection.Selection, error) {
	item, ok := s.Item(id)
	if !ok {
		return nil, nil, fmt.Errorf("kiosk: unknown item %q", id)
	}
	return item, selection.New(item.ModifierGroups()), nil
}

// AddToCart commits a validated selection as a new cart line. The selection
// must satisfy every required group; this is a hard gate, not a warning.
func (s *Session) AddToCart(item *models.CatalogItem, quantity int, sel *selection.Selection, instructions string) (models.CartLine, error) {
	if !sel.AllRequiredSatisfied() {
		return models.CartLine{}, ErrRequiredUnmet
	}
	return s.cart.AddLine(*item, quantity, sel.Build(), instructions, sel.ModifierTotal()), nil
}

// Cart exposes the cart store.
func (s *Session) Cart() *cart.Store {
	return s.cart
}

// Pricing exposes the discount engine for display reads.
func (s *Session) Pricing() *pricing.Engine {
	return s.pricing
}

// ApplyCoupon activates a coupon code; unknown codes return
// pricing.ErrCouponNotFound without touching state.
func (s *Session) ApplyCoupon(code string) error {
	return s.pricing.ApplyCouponCode(code)
}

// RemoveCoupon clears the applied coupon.
func (s *Session) RemoveCoupon() {
	s.pricing.RemoveCoupon()
}

// Totals recomputes cart totals from scratch on every call.
func (s *Session) Totals() pricing.Totals {
	return s.pricing.Totals(s.cart.Subtotal(), s.cart.Count())
}

// Checkout snapshots the cart and enters the payment flow.
func (s *Session) Checkout(ctx context.Context) error {
	if s.cart.Len() == 0 {
		return ErrEmptyCart
	}
	totals := s.Totals()
	return s.checkout.Begin(ctx, checkout.Snapshot{
		Lines:         s.cart.Lines(),
		Coupon:        s.pricing.AppliedCoupon(),
		Subtotal:      totals.Subtotal,
		CouponSavings: totals.CouponSavings,
		Total:         totals.Total,
		ShopSlug:      s.shopSlug,
	})
}

// CancelCheckout returns to browsing and clears cart and coupon state.
func (s *Session) CancelCheckout() {
	s.checkout.Cancel()
}

// CheckoutSession returns the current checkout snapshot.
func (s *Session) CheckoutSession() models.CheckoutSession {
	return s.checkout.Session()
}

// Close tears down the session's background timers.
func (s *Session) Close() {
	s.checkout.Close()
}
