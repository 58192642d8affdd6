package trip

import "sort"

// Merge applies a partial patch to an original document and returns the
// merged result. It is pure: neither argument is mutated. Rules:
//
//   - tripMeta fields present in the patch overwrite the original field of
//     the same name; absent fields are preserved.
//   - each patch day replaces the original day with the same number
//     wholesale, or is appended when the number is new; the result is
//     sorted ascending by day number.
//   - totals and risks are replaced wholesale when present.
//   - an empty patch returns the original unchanged.
func Merge(original Document, patch *Patch) Document {
	if patch.Empty() {
		return original
	}

	merged := original
	merged.TripMeta = mergeMeta(original.TripMeta, patch.TripMeta)
	merged.Days = mergeDays(original.Days, patch.Days)
	if patch.Totals != nil {
		merged.Totals = patch.Totals
	}
	if patch.Risks != nil {
		merged.Risks = patch.Risks
	}
	return merged
}

func mergeMeta(original Meta, patch *MetaPatch) Meta {
	if patch == nil {
		return original
	}
	merged := original
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.DateRange != nil {
		merged.DateRange = *patch.DateRange
	}
	if patch.Days != nil {
		merged.Days = *patch.Days
	}
	if patch.BudgetEstimate != nil {
		merged.BudgetEstimate = *patch.BudgetEstimate
	}
	if patch.TransportStrategy != nil {
		merged.TransportStrategy = *patch.TransportStrategy
	}
	if patch.Pace != nil {
		merged.Pace = *patch.Pace
	}
	return merged
}

func mergeDays(original, patch []Day) []Day {
	if patch == nil {
		return original
	}
	merged := make([]Day, len(original))
	copy(merged, original)
	for _, day := range patch {
		replaced := false
		for i := range merged {
			if merged[i].Day == day.Day {
				merged[i] = day
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, day)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Day < merged[j].Day })
	return merged
}
