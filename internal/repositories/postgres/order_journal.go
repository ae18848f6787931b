package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paykiosk/paykiosk/internal/models"
)

type OrderJournal struct {
	pool *pgxpool.Pool
}

func NewOrderJournal(pool *pgxpool.Pool) *OrderJournal {
	return &OrderJournal{pool: pool}
}

// RecordSubmission stores a submitted order keyed by its backend receipt id.
// Replays of the same receipt are ignored; the first write wins.
func (r *OrderJournal) RecordSubmission(ctx context.Context, receipt models.Receipt, sub models.OrderSubmission, total float64) error {
	items, err := json.Marshal(sub.Items)
	if err != nil {
		return err
	}

	couponCode := ""
	if sub.AppliedCoupon != nil {
		couponCode = sub.AppliedCoupon.Code
	} else if sub.CouponCode != "" {
		couponCode = sub.CouponCode
	}

	stmt := `
        INSERT INTO kiosk_orders (
            receipt_id, shop_slug, coupon_code, item_count, total,
            items, submitted_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )
        ON CONFLICT (receipt_id) DO NOTHING`

	_, err = r.pool.Exec(ctx, stmt,
		receipt.ReceiptID,
		sub.ShopSlug,
		couponCode,
		len(sub.Items),
		total,
		items,
		receipt.CreatedAt,
	)
	return err
}

// MarkPaid stamps the payment confirmation time. The paid timestamp is
// write-once; later confirmations for the same receipt change nothing.
func (r *OrderJournal) MarkPaid(ctx context.Context, receiptID string, paidAt time.Time) error {
	stmt := `
        UPDATE kiosk_orders
        SET paid_at = $2
        WHERE receipt_id = $1 AND paid_at IS NULL`

	_, err := r.pool.Exec(ctx, stmt, receiptID, paidAt)
	return err
}

func (r *OrderJournal) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM kiosk_orders").Scan(&count)
	return count, err
}

func (r *OrderJournal) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE kiosk_orders")
	return err
}
