package factories

import (
	"math/rand"

	"github.com/lucsky/cuid"

	"github.com/paykiosk/paykiosk/internal/models"
)

type DiscountFactory struct{}

// CreateDiscounts generates the automatic discount list. Order matters: the
// pricing engine applies the first matching discount per item.
func (df *DiscountFactory) CreateDiscounts() []models.Discount {
	discounts := []models.Discount{
		{
			ID:             cuid.New(),
			Title:          "Pizza Week",
			Type:           models.DiscountPercentage,
			Value:          float64(fake.IntBetween(10, 25)),
			AppliesTo:      models.ScopeCollection,
			AppliesToIDs:   []string{"Pizza"},
			MinRequirement: models.RequireNone,
			Status:         models.DiscountActive,
		},
		{
			ID:             cuid.New(),
			Title:          "Dollar Off Drinks",
			Type:           models.DiscountFixedAmount,
			Value:          1,
			AppliesTo:      models.ScopeCollection,
			AppliesToIDs:   []string{"Drinks"},
			MinRequirement: models.RequireNone,
			Status:         models.DiscountActive,
		},
	}

	if rand.Float64() < 0.5 {
		discounts = append(discounts, models.Discount{
			ID:             cuid.New(),
			Title:          "Dessert Deal",
			Type:           models.DiscountBuyXGetY,
			Value:          2,
			AppliesTo:      models.ScopeCollection,
			AppliesToIDs:   []string{"Desserts"},
			MinRequirement: models.RequireNone,
			Status:         models.DiscountActive,
		})
	}

	return discounts
}

// CreateCoupons generates redeemable coupon codes, including one gated on a
// minimum order amount and one on item quantity.
func (df *DiscountFactory) CreateCoupons() []models.Discount {
	return []models.Discount{
		{
			ID:             cuid.New(),
			Title:          "Welcome Discount",
			Code:           "WELCOME10",
			Type:           models.DiscountPercentage,
			Value:          10,
			AppliesTo:      models.ScopeAll,
			MinRequirement: models.RequireNone,
			Status:         models.DiscountActive,
		},
		{
			ID:                  cuid.New(),
			Title:               "Five Off Twenty Five",
			Code:                "SAVE5",
			Type:                models.DiscountFixedAmount,
			Value:               5,
			AppliesTo:           models.ScopeAll,
			MinRequirement:      models.RequireAmount,
			MinRequirementValue: 25,
			Status:              models.DiscountActive,
		},
		{
			ID:                  cuid.New(),
			Title:               "Family Bundle",
			Code:                "FAMILY15",
			Type:                models.DiscountPercentage,
			Value:               15,
			AppliesTo:           models.ScopeAll,
			MinRequirement:      models.RequireQuantity,
			MinRequirementValue: 4,
			Status:              models.DiscountActive,
		},
	}
}
