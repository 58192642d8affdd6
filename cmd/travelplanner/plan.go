package travelplanner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/viant/afs"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/trip"
)

// PlanCmd runs one itinerary update round and prints the updated document.
// Usage: travelplanner -f config.yaml plan --doc trip.json --prompt "add a day in Nara"
type PlanCmd struct {
	Doc    string `short:"d" long:"doc" description:"itinerary document JSON path or URL"`
	Prompt string `short:"p" long:"prompt" description:"what to change" required:"true"`
}

func (c *PlanCmd) Execute(_ []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	var document trip.Document
	if c.Doc != "" {
		data, err := afs.New().DownloadWithURL(ctx, c.Doc)
		if err != nil {
			return fmt.Errorf("failed to load document: %v, %w", c.Doc, err)
		}
		if err := json.Unmarshal(data, &document); err != nil {
			return fmt.Errorf("failed to parse document: %v, %w", c.Doc, err)
		}
	}

	doc, _ := json.Marshal(document)
	request := &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage("Current itinerary:\n" + string(doc)),
			llm.NewUserMessage(c.Prompt),
		},
	}
	update, err := rt.planner.Update(ctx, document, request, func(text string) {
		fmt.Print(text)
	})
	if err != nil {
		return err
	}
	fmt.Println()
	if !update.Patched {
		fmt.Println("no itinerary change proposed")
		return nil
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(update.Document)
}
