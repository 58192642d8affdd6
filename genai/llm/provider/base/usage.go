package base

import "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"

// UsageListener is a callback used by provider clients to report token
// usage for each successful request. It is declared as a function type so
// callers can pass simple lambdas, while an OnUsage method keeps it
// compatible with method-based invocation:
//
//	listener := func(model string, usage *llm.Usage) { … }
//	var _ UsageListener = UsageListener(listener)
type UsageListener func(model string, usage *llm.Usage)

// OnUsage invokes the listener, tolerating a nil receiver.
func (f UsageListener) OnUsage(model string, usage *llm.Usage) {
	if f == nil {
		return
	}
	f(model, usage)
}
