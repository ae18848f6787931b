// Package client talks to the merchant backend over its JSON HTTP contracts:
// order submission, payment-status checks, discount/coupon listing and the
// inventory fallback. Responses are normalized at this boundary so the rest
// of the engine never re-derives legacy shapes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/paykiosk/paykiosk/internal/models"
)

// ErrConnection is the user-visible message for transport failures. The
// kiosk surfaces it verbatim on the checkout screen.
var ErrConnection = errors.New("Failed to connect to the server.")

// Backend is the HTTP client for the merchant API. Requests authenticate
// with the merchant wallet header. Calls carry no client-side timeout; the
// checkout flow tolerates slow responses rather than aborting them.
type Backend struct {
	baseURL string
	wallet  string
	slug    string
	http    *http.Client
}

func NewBackend(baseURL, merchantWallet, shopSlug string) *Backend {
	return &Backend{
		baseURL: baseURL,
		wallet:  merchantWallet,
		slug:    shopSlug,
		http:    &http.Client{},
	}
}

func (b *Backend) postJSON(ctx context.Context, path string, body interface{}, withWallet bool) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if withWallet {
		req.Header.Set("x-wallet", b.wallet)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, ErrConnection
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (b *Backend) getJSON(ctx context.Context, path string, withWallet bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if withWallet {
		req.Header.Set("x-wallet", b.wallet)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, ErrConnection
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// SubmitOrder posts the order and returns its receipt. The backend may answer
// with a full receipt object or a bare receiptId; the latter gets a synthetic
// creation time so payment polling has a since-anchor either way.
func (b *Backend) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*models.Receipt, error) {
	raw, err := b.postJSON(ctx, "/api/orders", sub, true)
	if err != nil {
		return nil, err
	}

	var data struct {
		Receipt   *models.Receipt `json:"receipt"`
		ReceiptID string          `json:"receiptId"`
		Message   string          `json:"message"`
		Error     string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}

	if data.Receipt != nil && data.Receipt.ReceiptID != "" {
		receipt := *data.Receipt
		if receipt.CreatedAt.IsZero() {
			receipt.CreatedAt = time.Now()
		}
		return &receipt, nil
	}
	if data.ReceiptID != "" {
		return &models.Receipt{ReceiptID: data.ReceiptID, CreatedAt: time.Now()}, nil
	}

	msg := data.Message
	if msg == "" {
		msg = data.Error
	}
	if msg == "" {
		msg = "An unexpected error occurred."
	}
	return nil, errors.New(msg)
}

// CheckPayment queries the payment-status endpoint for a receipt.
func (b *Backend) CheckPayment(ctx context.Context, query models.PaymentQuery) (models.PaymentStatus, error) {
	raw, err := b.postJSON(ctx, "/api/terminal/check-payment", query, false)
	if err != nil {
		return models.PaymentStatus{}, err
	}
	var status models.PaymentStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return models.PaymentStatus{}, fmt.Errorf("decoding payment status: %w", err)
	}
	return status, nil
}

// FetchDiscounts loads the merchant's active automatic discounts and coupons.
func (b *Backend) FetchDiscounts(ctx context.Context) (discounts, coupons []models.Discount, err error) {
	path := "/api/shop/discounts?wallet=" + url.QueryEscape(b.wallet)
	if b.slug != "" {
		path += "&slug=" + url.QueryEscape(b.slug)
	}
	raw, err := b.getJSON(ctx, path, false)
	if err != nil {
		return nil, nil, err
	}
	var data struct {
		Discounts []models.Discount `json:"discounts"`
		Coupons   []models.Discount `json:"coupons"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, fmt.Errorf("decoding discounts: %w", err)
	}
	return data.Discounts, data.Coupons, nil
}

// FetchInventory loads the approved catalog, resolving each item's attribute
// payload into its restaurant shape and ordering modifier groups for display.
// Used only when the kiosk was not pre-supplied with items.
func (b *Backend) FetchInventory(ctx context.Context) ([]models.CatalogItem, error) {
	raw, err := b.getJSON(ctx, "/api/inventory", true)
	if err != nil {
		return nil, err
	}
	var data struct {
		Items []models.CatalogItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding inventory: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(data.Items))
	for _, item := range data.Items {
		if !item.IsApproved() {
			continue
		}
		NormalizeItem(&item)
		items = append(items, item)
	}
	return items, nil
}

// NormalizeItem resolves the item's attribute union once and sorts modifier
// groups and their modifiers by sort order so downstream code can iterate
// them as-is.
func NormalizeItem(item *models.CatalogItem) {
	item.ResolveAttributes()
	if item.Restaurant == nil {
		return
	}
	groups := item.Restaurant.ModifierGroups
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].SortOrder < groups[j].SortOrder
	})
	for gi := range groups {
		mods := groups[gi].Modifiers
		sort.SliceStable(mods, func(i, j int) bool {
			return mods[i].SortOrder < mods[j].SortOrder
		})
	}
}
