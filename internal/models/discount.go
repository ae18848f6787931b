package models

import (
	"fmt"
	"math"
	"strings"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
	DiscountBuyXGetY    DiscountType = "buy_x_get_y"
)

type DiscountScope string

const (
	ScopeAll        DiscountScope = "all"
	ScopeCollection DiscountScope = "collection"
	ScopeProduct    DiscountScope = "product"
)

type MinRequirement string

const (
	RequireNone     MinRequirement = "none"
	RequireAmount   MinRequirement = "amount"
	RequireQuantity MinRequirement = "quantity"
)

type DiscountStatus string

const (
	DiscountActive    DiscountStatus = "active"
	DiscountScheduled DiscountStatus = "scheduled"
	DiscountExpired   DiscountStatus = "expired"
)

// Discount is a merchant-configured price adjustment. A discount with a Code is
// a coupon and only applies once the customer enters that code at checkout.
type Discount struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Code                string         `json:"code,omitempty"`
	Type                DiscountType   `json:"type"`
	Value               float64        `json:"value"`
	AppliesTo           DiscountScope  `json:"appliesTo"`
	AppliesToIDs        []string       `json:"appliesToIds"`
	MinRequirement      MinRequirement `json:"minRequirement"`
	MinRequirementValue float64        `json:"minRequirementValue"`
	Status              DiscountStatus `json:"status"`
}

// MatchesItem reports whether this discount's scope covers the item.
// Collection targets are compared case-insensitively against the item category.
func (d *Discount) MatchesItem(item *CatalogItem) bool {
	switch d.AppliesTo {
	case ScopeAll:
		return true
	case ScopeCollection:
		if item.Category == "" {
			return false
		}
		for _, id := range d.AppliesToIDs {
			if strings.EqualFold(id, item.Category) {
				return true
			}
		}
	case ScopeProduct:
		for _, id := range d.AppliesToIDs {
			if id == item.ID {
				return true
			}
		}
	}
	return false
}

// RequirementMet evaluates the minimum requirement against the raw
// (pre-discount) subtotal and total cart quantity.
func (d *Discount) RequirementMet(rawSubtotal float64, totalQty int) bool {
	switch d.MinRequirement {
	case RequireAmount:
		return rawSubtotal >= d.MinRequirementValue
	case RequireQuantity:
		return float64(totalQty) >= d.MinRequirementValue
	default:
		return true
	}
}

// Label renders the customer-facing banner text. buy_x_get_y has no numeric
// price effect anywhere in the engine; the label is its only manifestation.
func (d *Discount) Label() string {
	switch d.Type {
	case DiscountPercentage:
		return fmt.Sprintf("%g%% OFF", d.Value)
	case DiscountFixedAmount:
		return fmt.Sprintf("$%g OFF", d.Value)
	case DiscountBuyXGetY:
		return fmt.Sprintf("Buy %d Get 1 Free", int(math.Floor(d.Value)))
	}
	return "SALE"
}

// RequirementLabel renders the minimum-requirement hint, or "" when none.
func (d *Discount) RequirementLabel() string {
	if d.MinRequirement == RequireAmount && d.MinRequirementValue > 0 {
		return fmt.Sprintf("Min $%g order", d.MinRequirementValue)
	}
	if d.MinRequirement == RequireQuantity && d.MinRequirementValue > 0 {
		return fmt.Sprintf("Min %d items", int(d.MinRequirementValue))
	}
	return ""
}

// CouponSnapshot is the trimmed coupon record attached to an order submission.
type CouponSnapshot struct {
	ID    string       `json:"id"`
	Code  string       `json:"code,omitempty"`
	Title string       `json:"title"`
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Snapshot freezes the fields the order API wants to keep with the order.
func (d *Discount) Snapshot() CouponSnapshot {
	return CouponSnapshot{
		ID:    d.ID,
		Code:  d.Code,
		Title: d.Title,
		Type:  d.Type,
		Value: d.Value,
	}
}
