// Package simulator drives synthetic kiosk sessions end to end: a generated
// catalog and discount set, randomized browsing and modifier picks, checkout
// against a stub backend and payment confirmation through the real polling
// path. Telemetry and journal wiring is identical to a live kiosk.
package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schollz/progressbar/v3"

	"github.com/paykiosk/paykiosk/internal/checkout"
	"github.com/paykiosk/paykiosk/internal/factories"
	"github.com/paykiosk/paykiosk/internal/kiosk"
	"github.com/paykiosk/paykiosk/internal/models"
	"github.com/paykiosk/paykiosk/internal/repositories/postgres"
	"github.com/paykiosk/paykiosk/internal/selection"
)

type Simulator struct {
	Config    *models.Config
	Items     []models.CatalogItem
	Discounts []models.Discount
	Coupons   []models.Discount
	Rng       *rand.Rand
}

func NewSimulator(config *models.Config) *Simulator {
	seed := int64(config.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rand.Seed(seed)
	return &Simulator{
		Config: config,
		Rng:    rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulator) Run() error {
	ctx := context.Background()

	catalogFactory := &factories.CatalogFactory{}
	discountFactory := &factories.DiscountFactory{}
	s.Items = catalogFactory.CreateCatalog(s.Config.CatalogSize)
	s.Discounts = discountFactory.CreateDiscounts()
	s.Coupons = discountFactory.CreateCoupons()

	dest, err := kiosk.NewDestination(s.Config)
	if err != nil {
		return fmt.Errorf("failed to create output destination: %w", err)
	}
	telemetry := kiosk.NewTelemetry(dest)
	defer telemetry.Close()

	opts := []checkout.Option{checkout.WithEmitter(telemetry)}
	if s.Config.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, s.Config.PostgresDSN)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := s.seedCatalog(ctx, pool); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		opts = append(opts, checkout.WithJournal(postgres.NewOrderJournal(pool)))
	}

	pollInterval := s.Config.PollInterval
	if pollInterval <= 0 {
		pollInterval = models.DefaultPollInterval
	}
	backend := NewStubBackend(s.Rng, pollInterval/2, 2*pollInterval, 0.05)

	bar := progressbar.Default(int64(s.Config.Sessions), "kiosk sessions")
	for i := 0; i < s.Config.Sessions; i++ {
		s.runSession(ctx, backend, opts)
		_ = bar.Add(1)
	}
	return nil
}

func (s *Simulator) seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	repo := postgres.NewCatalogRepository(pool)
	if err := repo.DeleteAll(ctx); err != nil {
		return err
	}
	items := make([]*models.CatalogItem, len(s.Items))
	for i := range s.Items {
		items[i] = &s.Items[i]
	}
	return repo.BulkCreate(ctx, items)
}

// runSession plays one customer: browse, customize a few items, maybe apply a
// coupon, check out and wait for the payment confirmation to land. A rejected
// submission is a valid outcome; the session just resets.
func (s *Simulator) runSession(ctx context.Context, backend *StubBackend, opts []checkout.Option) {
	cfg := checkout.Config{
		PortalOrigin:   s.Config.PortalOrigin,
		MerchantWallet: s.Config.MerchantWallet,
		Currency:       s.Config.Currency,
		PollInterval:   s.Config.PollInterval,
		ResetDelay:     s.Config.ResetDelay,
	}
	session := kiosk.NewSession(cfg, s.Config.ShopSlug, s.Items, s.Discounts, s.Coupons, backend, backend, opts...)
	defer session.Close()

	lineCount := s.Rng.Intn(3) + 1
	for i := 0; i < lineCount; i++ {
		pick := s.Items[s.Rng.Intn(len(s.Items))]
		item, sel, err := session.OpenItem(pick.ID)
		if err != nil {
			continue
		}
		s.customize(item, sel)
		if _, err := session.AddToCart(item, s.Rng.Intn(2)+1, sel, ""); err != nil {
			log.Printf("session %s: could not add %s: %v", session.ID, item.Name, err)
		}
	}
	if session.Cart().Len() == 0 {
		return
	}

	if s.Rng.Float64() < 0.3 {
		codes := []string{"WELCOME10", "SAVE5", "FAMILY15"}
		_ = session.ApplyCoupon(codes[s.Rng.Intn(len(codes))])
	}

	if err := session.Checkout(ctx); err != nil {
		session.CancelCheckout()
		return
	}

	deadline := time.Now().Add(4*cfg.PollInterval + 4*time.Second)
	for time.Now().Before(deadline) {
		if session.CheckoutSession().Paid {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	session.CancelCheckout()
}

// customize makes randomized but rule-abiding picks: switch the single-select
// choice sometimes, add a topping or two, bump a quantity counter.
func (s *Simulator) customize(item *models.CatalogItem, sel *selection.Selection) {
	for _, group := range item.ModifierGroups() {
		switch {
		case group.SelectionType == models.SelectionQuantity:
			if len(group.Modifiers) > 0 && s.Rng.Float64() < 0.5 {
				mod := group.Modifiers[s.Rng.Intn(len(group.Modifiers))]
				_ = sel.AdjustQuantity(group.ID, mod.ID, s.Rng.Intn(2))
			}
		case group.IsSingle():
			if len(group.Modifiers) > 0 && s.Rng.Float64() < 0.5 {
				mod := group.Modifiers[s.Rng.Intn(len(group.Modifiers))]
				sel.Toggle(group.ID, mod.ID)
			}
		default:
			for _, mod := range group.Modifiers {
				if s.Rng.Float64() < 0.3 {
					sel.Toggle(group.ID, mod.ID)
				}
			}
		}
		// a random single-select toggle can clear a required group; restore it
		if group.Required && !sel.IsGroupSatisfied(group.ID) {
			for _, mod := range group.Modifiers {
				if mod.IsAvailable() && sel.Toggle(group.ID, mod.ID) {
					break
				}
			}
		}
	}
}
