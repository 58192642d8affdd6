package travelplanner

import (
	"context"
	"fmt"
)

// PointsCmd inspects or credits a user's balance.
// Usage: travelplanner -f config.yaml points --user u1 --credit 100
type PointsCmd struct {
	User   string `short:"u" long:"user" description:"user id" required:"true"`
	Credit int    `short:"c" long:"credit" description:"points to add before printing the balance"`
}

func (c *PointsCmd) Execute(_ []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	if c.Credit > 0 {
		if err := rt.points.Credit(ctx, c.User, c.Credit); err != nil {
			return err
		}
	}
	balance, err := rt.points.Balance(ctx, c.User)
	if err != nil {
		return err
	}
	fmt.Printf("%v: %d points\n", c.User, balance)
	return nil
}
