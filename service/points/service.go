package points

import (
	"context"
	"fmt"
)

// Service combines the ledger and the pricing table into the billing
// operation the AI services call before doing paid work.
type Service struct {
	ledger  *Ledger
	pricing *Pricing
}

// NewService creates a billing service.
func NewService(ledger *Ledger, pricing *Pricing) *Service {
	return &Service{ledger: ledger, pricing: pricing}
}

// ChargeFor debits the user for n units of the given action and returns
// the total points charged. ErrInsufficientPoints is returned unwrapped so
// callers can branch on it.
func (s *Service) ChargeFor(ctx context.Context, userID, action string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("charge count must be positive: %d", n)
	}
	price, err := s.pricing.Price(ctx, action)
	if err != nil {
		return 0, err
	}
	total := price * n
	if err := s.ledger.Debit(ctx, userID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// Refund returns points to the user, e.g. when a charged request fails
// before any AI work happened.
func (s *Service) Refund(ctx context.Context, userID string, total int) error {
	return s.ledger.Credit(ctx, userID, total)
}

// Credit tops up the user's balance.
func (s *Service) Credit(ctx context.Context, userID string, points int) error {
	return s.ledger.Credit(ctx, userID, points)
}

// Balance exposes the user's current balance.
func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	return s.ledger.Balance(ctx, userID)
}
