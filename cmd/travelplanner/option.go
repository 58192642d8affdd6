package travelplanner

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"config YAML path or URL"`
	Version bool   `short:"v" long:"version" description:"print version and exit"`

	Serve     *ServeCmd     `command:"serve"     description:"Start the HTTP API server"`
	Plan      *PlanCmd      `command:"plan"      description:"Run one itinerary update against the configured model"`
	Recommend *RecommendCmd `command:"recommend" description:"Fetch one recommendation batch"`
	Points    *PointsCmd    `command:"points"    description:"Inspect or credit a user's points balance"`
}

// Init instantiates the sub-command referenced by the first argument so that
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "plan":
		o.Plan = &PlanCmd{}
	case "recommend":
		o.Recommend = &RecommendCmd{}
	case "points":
		o.Points = &PointsCmd{}
	}
}
