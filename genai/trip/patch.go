package trip

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// MetaPatch mirrors Meta with pointer fields so that an absent field can be
// told apart from an explicit zero value.
type MetaPatch struct {
	Title             *string `json:"title,omitempty"`
	DateRange         *string `json:"dateRange,omitempty"`
	Days              *int    `json:"days,omitempty"`
	BudgetEstimate    *string `json:"budgetEstimate,omitempty"`
	TransportStrategy *string `json:"transportStrategy,omitempty"`
	Pace              *string `json:"pace,omitempty"`
}

// Patch is a partial Document representing AI-proposed changes. Nil fields
// were absent from the payload and leave the original untouched.
type Patch struct {
	TripMeta *MetaPatch         `json:"tripMeta,omitempty"`
	Days     []Day              `json:"days,omitempty"`
	Totals   map[string]float64 `json:"totals,omitempty"`
	Risks    []string           `json:"risks,omitempty"`
}

// Empty reports whether the patch proposes no change at all.
func (p *Patch) Empty() bool {
	return p == nil || (p.TripMeta == nil && p.Days == nil && p.Totals == nil && p.Risks == nil)
}

// patchSchema constrains the shape of an incoming payload: unknown top-level
// keys are tolerated, known ones must have the right types.
const patchSchema = `{
	"type": "object",
	"properties": {
		"tripMeta": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"dateRange": {"type": "string"},
				"days": {"type": "integer"},
				"budgetEstimate": {"type": "string"},
				"transportStrategy": {"type": "string"},
				"pace": {"type": "string"}
			}
		},
		"days": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"day": {"type": "integer"}},
				"required": ["day"]
			}
		},
		"totals": {"type": "object", "additionalProperties": {"type": "number"}},
		"risks": {"type": "array", "items": {"type": "string"}}
	}
}`

var patchSchemaLoader = gojsonschema.NewStringLoader(patchSchema)

// ParsePatch validates the raw payload text against the patch schema and
// unmarshals it. Callers treat any error as "no patch produced" rather than
// a fatal condition.
func ParsePatch(payload string) (*Patch, error) {
	result, err := gojsonschema.Validate(patchSchemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("payload does not match patch schema: %v", result.Errors())
	}
	patch := &Patch{}
	if err := json.Unmarshal([]byte(payload), patch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal patch: %w", err)
	}
	return patch, nil
}
