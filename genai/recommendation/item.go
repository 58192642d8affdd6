// Package recommendation defines AI-generated recommendation items and the
// incremental extraction of such items from streamed narrative text.
package recommendation

// Item is a single AI-generated recommendation.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Reason      string `json:"reason,omitempty"`
	OpenHours   string `json:"openHours,omitempty"`
}

// Valid reports whether the item carries the minimum required fields.
func (i Item) Valid() bool {
	return i.Name != "" && i.Description != "" && i.Category != ""
}
