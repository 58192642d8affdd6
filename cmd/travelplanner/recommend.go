package travelplanner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/prefetch"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/recommendation"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/session"
)

// RecommendCmd runs a recommendation search. A single round charges the
// pay-per-batch price; with --rounds it opens a session and serves the
// follow-up batches through the prefetch buffer, so each "load more" round
// is filled in the background while the previous one prints.
// Usage: travelplanner -f config.yaml recommend --user u1 --location Kyoto --category food
type RecommendCmd struct {
	User      string `short:"u" long:"user" description:"user id" required:"true"`
	Location  string `short:"l" long:"location" description:"where to recommend around" required:"true"`
	Category  string `short:"c" long:"category" description:"recommendation category" required:"true"`
	Interests string `short:"i" long:"interests" description:"comma separated interests"`
	Exclude   string `short:"x" long:"exclude" description:"comma separated place names to skip"`
	Rounds    int    `short:"n" long:"rounds" description:"how many batches to fetch" default:"1"`
}

func (c *RecommendCmd) Execute(_ []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	sessionContext := session.Context{Location: c.Location}
	if c.Interests != "" {
		sessionContext.Interests = strings.Split(c.Interests, ",")
	}
	var exclude []string
	if c.Exclude != "" {
		exclude = strings.Split(c.Exclude, ",")
	}

	if c.Rounds <= 1 {
		items, err := rt.recommend.FetchPaid(ctx, c.User, sessionContext, c.Category, exclude)
		if err != nil {
			return err
		}
		return printItems(items)
	}

	// Refills run ahead of the rounds the user asked for, so the session
	// quota carries a queue-size margin on top of them.
	quota := c.Rounds + rt.config.Recommend.QueueSize
	if rt.config.Recommend.DefaultQuota > quota {
		quota = rt.config.Recommend.DefaultQuota
	}
	sessionID, err := rt.recommend.InitSession(ctx, c.User, quota, sessionContext)
	if err != nil {
		return err
	}
	fetcher := rt.recommend.Fetcher(sessionID, c.User)
	if len(exclude) > 0 {
		fetcher = &skipListFetcher{next: fetcher, skip: exclude}
	}
	buffer := prefetch.NewManager(fetcher,
		prefetch.WithBatchSize(rt.config.Recommend.BatchSize),
		prefetch.WithQueueSize(rt.config.Recommend.QueueSize),
	)

	items, err := buffer.Search(ctx, prefetch.Query{
		Category:  c.Category,
		Location:  c.Location,
		Interests: sessionContext.Interests,
	})
	if err != nil {
		return err
	}
	if err := printItems(items); err != nil {
		return err
	}
	for round := 1; round < c.Rounds; round++ {
		items, err = buffer.LoadMore(ctx, c.Category)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("no more recommendations")
			return nil
		}
		if err := printItems(items); err != nil {
			return err
		}
	}
	return nil
}

func printItems(items []recommendation.Item) error {
	if len(items) == 0 {
		fmt.Println("no recommendations")
		return nil
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

// skipListFetcher folds the user's skip list into every refill round.
type skipListFetcher struct {
	next prefetch.Fetcher
	skip []string
}

func (f *skipListFetcher) FetchBatch(ctx context.Context, query prefetch.Query, exclude []string) ([]recommendation.Item, error) {
	merged := make([]string, 0, len(f.skip)+len(exclude))
	merged = append(merged, f.skip...)
	merged = append(merged, exclude...)
	return f.next.FetchBatch(ctx, query, merged)
}
