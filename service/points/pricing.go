package points

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Billable actions priced by the table.
const (
	ActionPlanUpdate    = "plan.update"
	ActionRecommendInit = "recommend.init"
	ActionRecommendMore = "recommend.more"
)

// PriceSource resolves the cost of a billable action in points. The
// production source reads the shared pricing table; tests inject a map.
type PriceSource interface {
	Price(ctx context.Context, action string) (int, error)
}

// StaticPrices is a PriceSource backed by a fixed map.
type StaticPrices map[string]int

// Price implements PriceSource.
func (p StaticPrices) Price(ctx context.Context, action string) (int, error) {
	price, ok := p[action]
	if !ok {
		return 0, fmt.Errorf("no price for action %q", action)
	}
	return price, nil
}

// Pricing caches price lookups so the table is not consulted on every
// request.
type Pricing struct {
	source PriceSource
	cache  *gocache.Cache
}

// NewPricing creates a price cache over the given source.
func NewPricing(source PriceSource) *Pricing {
	return &Pricing{
		source: source,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Price returns the cached cost of an action, consulting the source on a
// cache miss.
func (p *Pricing) Price(ctx context.Context, action string) (int, error) {
	if cached, ok := p.cache.Get(action); ok {
		return cached.(int), nil
	}
	price, err := p.source.Price(ctx, action)
	if err != nil {
		return 0, err
	}
	p.cache.Set(action, price, gocache.DefaultExpiration)
	return price, nil
}
