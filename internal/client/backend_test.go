package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paykiosk/paykiosk/internal/models"
)

func TestSubmitOrder_FullReceipt(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-wallet"); got != "wallet-1" {
			t.Errorf("expected wallet header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"receipt": models.Receipt{ReceiptID: "rcpt_1", CreatedAt: created},
		})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, "wallet-1", "demo-shop")
	receipt, err := b.SubmitOrder(context.Background(), models.OrderSubmission{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ReceiptID != "rcpt_1" || !receipt.CreatedAt.Equal(created) {
		t.Errorf("unexpected receipt %+v", receipt)
	}
}

func TestSubmitOrder_BareReceiptIDGetsSyntheticTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"receiptId": "rcpt_2"})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, "wallet-1", "")
	receipt, err := b.SubmitOrder(context.Background(), models.OrderSubmission{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ReceiptID != "rcpt_2" {
		t.Errorf("expected rcpt_2, got %q", receipt.ReceiptID)
	}
	if receipt.CreatedAt.IsZero() {
		t.Error("expected a synthetic creation time for polling")
	}
}

func TestSubmitOrder_ErrorMessagePreference(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message": "Shop is currently closed."}`, "Shop is currently closed."},
		{"error", `{"error": "invalid order"}`, "invalid order"},
		{"fallback", `{}`, "An unexpected error occurred."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			b := NewBackend(srv.URL, "wallet-1", "")
			_, err := b.SubmitOrder(context.Background(), models.OrderSubmission{})
			if err == nil || err.Error() != tc.want {
				t.Errorf("expected error %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitOrder_ConnectionFailure(t *testing.T) {
	b := NewBackend("http://127.0.0.1:1", "wallet-1", "")
	_, err := b.SubmitOrder(context.Background(), models.OrderSubmission{})
	if err != ErrConnection {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestCheckPayment_OmitsWalletHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/terminal/check-payment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-wallet"); got != "" {
			t.Errorf("expected no wallet header on payment checks, got %q", got)
		}
		json.NewEncoder(w).Encode(models.PaymentStatus{OK: true, Paid: true})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, "wallet-1", "")
	status, err := b.CheckPayment(context.Background(), models.PaymentQuery{ReceiptID: "rcpt_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.OK || !status.Paid {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestFetchDiscounts_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("wallet") != "wallet-1" || q.Get("slug") != "demo-shop" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"discounts": []models.Discount{{ID: "d1"}},
			"coupons":   []models.Discount{{ID: "c1", Code: "WELCOME10"}},
		})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, "wallet-1", "demo-shop")
	discounts, coupons, err := b.FetchDiscounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(discounts) != 1 || discounts[0].ID != "d1" {
		t.Errorf("unexpected discounts %+v", discounts)
	}
	if len(coupons) != 1 || coupons[0].Code != "WELCOME10" {
		t.Errorf("unexpected coupons %+v", coupons)
	}
}

func TestFetchInventory_FiltersAndNormalizes(t *testing.T) {
	no := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []models.CatalogItem{
				{
					ID: "keep", Price: 10,
					Attributes: json.RawMessage(`{
						"type": "restaurant",
						"data": {"modifierGroups": [
							{"id": "later", "name": "Later", "sortOrder": 2, "modifiers": []},
							{"id": "first", "name": "First", "sortOrder": 1, "modifiers": [
								{"id": "b", "name": "B", "sortOrder": 2},
								{"id": "a", "name": "A", "sortOrder": 1}
							]}
						]}
					}`),
				},
				{ID: "drop", Price: 5, Approved: &no},
			},
		})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, "wallet-1", "")
	items, err := b.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "keep" {
		t.Fatalf("expected only the approved item, got %+v", items)
	}

	groups := items[0].ModifierGroups()
	if len(groups) != 2 || groups[0].ID != "first" || groups[1].ID != "later" {
		t.Fatalf("expected groups sorted by sortOrder, got %+v", groups)
	}
	if groups[0].Modifiers[0].ID != "a" || groups[0].Modifiers[1].ID != "b" {
		t.Errorf("expected modifiers sorted by sortOrder, got %+v", groups[0].Modifiers)
	}
}
