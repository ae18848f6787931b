package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/paykiosk/paykiosk/internal/models"
)

// StubBackend is an in-memory merchant backend for simulation runs. Every
// accepted order is "paid" after a short randomized delay, so the checkout
// poller sees a realistic pending window before confirmation.
type StubBackend struct {
	mu          sync.Mutex
	rng         *rand.Rand
	paidAt      map[string]time.Time
	minConfirm  time.Duration
	maxConfirm  time.Duration
	failureRate float64
}

func NewStubBackend(rng *rand.Rand, minConfirm, maxConfirm time.Duration, failureRate float64) *StubBackend {
	return &StubBackend{
		rng:         rng,
		paidAt:      make(map[string]time.Time),
		minConfirm:  minConfirm,
		maxConfirm:  maxConfirm,
		failureRate: failureRate,
	}
}

func (b *StubBackend) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*models.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rng.Float64() < b.failureRate {
		return nil, errors.New("Shop is currently closed.")
	}

	receipt := &models.Receipt{
		ReceiptID: cuid.New(),
		CreatedAt: time.Now(),
	}
	delay := b.minConfirm
	if b.maxConfirm > b.minConfirm {
		delay += time.Duration(b.rng.Int63n(int64(b.maxConfirm - b.minConfirm)))
	}
	b.paidAt[receipt.ReceiptID] = receipt.CreatedAt.Add(delay)
	return receipt, nil
}

func (b *StubBackend) CheckPayment(ctx context.Context, query models.PaymentQuery) (models.PaymentStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	at, ok := b.paidAt[query.ReceiptID]
	if !ok {
		return models.PaymentStatus{OK: true}, nil
	}
	return models.PaymentStatus{OK: true, Paid: !time.Now().Before(at)}, nil
}
