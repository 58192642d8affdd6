package points

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ledgerSeq int64

// memLedger returns a ledger rooted in a unique in-memory location.
func memLedger() *Ledger {
	return NewLedger(fmt.Sprintf("mem://localhost/points-%d", atomic.AddInt64(&ledgerSeq, 1)))
}

func TestLedger_CreditDebit(t *testing.T) {
	ctx := context.Background()
	ledger := memLedger()

	balance, err := ledger.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, balance)

	assert.NoError(t, ledger.Credit(ctx, "user-1", 100))
	assert.NoError(t, ledger.Debit(ctx, "user-1", 30))

	balance, err = ledger.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 70, balance)
}

func TestLedger_DebitInsufficient(t *testing.T) {
	ctx := context.Background()
	ledger := memLedger()
	assert.NoError(t, ledger.Credit(ctx, "user-1", 10))

	err := ledger.Debit(ctx, "user-1", 11)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Balance unchanged by the failed debit.
	balance, err := ledger.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}

func TestLedger_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	ledger := memLedger()
	assert.NoError(t, ledger.Credit(ctx, "user-1", 50))
	assert.NoError(t, ledger.Credit(ctx, "user-2", 7))

	balance, err := ledger.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 50, balance)
	balance, err = ledger.Balance(ctx, "user-2")
	assert.NoError(t, err)
	assert.EqualValues(t, 7, balance)
}

func TestService_ChargeFor(t *testing.T) {
	ctx := context.Background()
	ledger := memLedger()
	assert.NoError(t, ledger.Credit(ctx, "user-1", 100))

	svc := NewService(ledger, NewPricing(StaticPrices{
		ActionRecommendInit: 10,
		ActionRecommendMore: 5,
	}))

	total, err := svc.ChargeFor(ctx, "user-1", ActionRecommendMore, 3)
	assert.NoError(t, err)
	assert.EqualValues(t, 15, total)

	balance, err := svc.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 85, balance)

	// Unknown action carries no price.
	_, err = svc.ChargeFor(ctx, "user-1", "plan.teleport", 1)
	assert.Error(t, err)

	// Quota purchases beyond the balance fail atomically.
	_, err = svc.ChargeFor(ctx, "user-1", ActionRecommendInit, 9)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	balance, err = svc.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 85, balance)
}

func TestService_Refund(t *testing.T) {
	ctx := context.Background()
	ledger := memLedger()
	assert.NoError(t, ledger.Credit(ctx, "user-1", 20))

	svc := NewService(ledger, NewPricing(StaticPrices{ActionPlanUpdate: 20}))
	total, err := svc.ChargeFor(ctx, "user-1", ActionPlanUpdate, 1)
	assert.NoError(t, err)
	assert.NoError(t, svc.Refund(ctx, "user-1", total))

	balance, err := svc.Balance(ctx, "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 20, balance)
}

func TestPricing_CachesLookups(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{prices: StaticPrices{ActionPlanUpdate: 20}}
	pricing := NewPricing(source)

	for i := 0; i < 3; i++ {
		price, err := pricing.Price(ctx, ActionPlanUpdate)
		assert.NoError(t, err)
		assert.EqualValues(t, 20, price)
	}
	assert.EqualValues(t, 1, source.calls)
}

type countingSource struct {
	prices StaticPrices
	calls  int
}

func (s *countingSource) Price(ctx context.Context, action string) (int, error) {
	s.calls++
	return s.prices.Price(ctx, action)
}
