package repositories

import (
	"context"
	"time"

	"github.com/paykiosk/paykiosk/internal/models"
)

// OrderJournal persists submitted orders and their payment confirmations for
// merchant-side reconciliation. It mirrors the checkout journal contract with
// the usual maintenance operations alongside.
type OrderJournal interface {
	RecordSubmission(ctx context.Context, receipt models.Receipt, sub models.OrderSubmission, total float64) error
	MarkPaid(ctx context.Context, receiptID string, paidAt time.Time) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// CatalogRepository stores normalized catalog items, used to seed and inspect
// demo catalogs.
type CatalogRepository interface {
	BulkCreate(ctx context.Context, items []*models.CatalogItem) error
	Create(ctx context.Context, item *models.CatalogItem) error
	GetAll(ctx context.Context) ([]*models.CatalogItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
