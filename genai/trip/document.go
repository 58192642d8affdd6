// Package trip defines the itinerary document model and deterministic
// merging of AI-proposed partial updates into an existing document.
package trip

// Meta carries trip-level attributes.
type Meta struct {
	Title             string `json:"title,omitempty"`
	DateRange         string `json:"dateRange,omitempty"`
	Days              int    `json:"days,omitempty"`
	BudgetEstimate    string `json:"budgetEstimate,omitempty"`
	TransportStrategy string `json:"transportStrategy,omitempty"`
	Pace              string `json:"pace,omitempty"`
}

// Stop is a single visit within a day plan.
type Stop struct {
	Name     string `json:"name"`
	Time     string `json:"time,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Location string `json:"location,omitempty"`
}

// Day is one day of the itinerary. Day numbers are unique within a
// document and the days list is kept sorted ascending by number.
type Day struct {
	Day            int      `json:"day"`
	Date           string   `json:"date,omitempty"`
	Theme          string   `json:"theme,omitempty"`
	Stops          []Stop   `json:"stops,omitempty"`
	DailyChecklist []string `json:"dailyChecklist,omitempty"`
}

// Document is a complete trip itinerary. Values are owned by the caller;
// merging computes a new Document and never mutates an existing one.
type Document struct {
	TripMeta Meta               `json:"tripMeta"`
	Days     []Day              `json:"days"`
	Totals   map[string]float64 `json:"totals,omitempty"`
	Risks    []string           `json:"risks,omitempty"`
}
