package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func sampleDocument() Document {
	return Document{
		TripMeta: Meta{
			Title:     "Kyoto long weekend",
			DateRange: "2026-04-01 ~ 2026-04-03",
			Days:      3,
			Pace:      "relaxed",
		},
		Days: []Day{
			{Day: 1, Theme: "temples", Stops: []Stop{{Name: "Kinkaku-ji"}}},
			{Day: 2, Theme: "food", Stops: []Stop{{Name: "Nishiki market"}}},
		},
		Totals: map[string]float64{"lodging": 420},
		Risks:  []string{"cherry blossom crowds"},
	}
}

func TestMerge_MetaShallow(t *testing.T) {
	original := sampleDocument()
	merged := Merge(original, &Patch{TripMeta: &MetaPatch{Title: strPtr("Kyoto in bloom"), Pace: strPtr("packed")}})

	assert.EqualValues(t, "Kyoto in bloom", merged.TripMeta.Title)
	assert.EqualValues(t, "packed", merged.TripMeta.Pace)
	// Fields absent from the patch are preserved.
	assert.EqualValues(t, original.TripMeta.DateRange, merged.TripMeta.DateRange)
	assert.EqualValues(t, original.TripMeta.Days, merged.TripMeta.Days)
}

func TestMerge_DayReplacedWholesale(t *testing.T) {
	original := sampleDocument()
	merged := Merge(original, &Patch{Days: []Day{{Day: 2, Theme: "gardens"}}})

	assert.Len(t, merged.Days, 2)
	assert.EqualValues(t, Day{Day: 2, Theme: "gardens"}, merged.Days[1])
	// Replacement is wholesale: the original day-2 stops are gone.
	assert.Empty(t, merged.Days[1].Stops)
	assert.EqualValues(t, original.Days[0], merged.Days[0])
}

func TestMerge_DayAppendedAndSorted(t *testing.T) {
	original := sampleDocument()
	merged := Merge(original, &Patch{Days: []Day{{Day: 3, Theme: "day trip"}, {Day: 1, Theme: "shrines"}}})

	assert.Len(t, merged.Days, 3)
	days := []int{merged.Days[0].Day, merged.Days[1].Day, merged.Days[2].Day}
	assert.EqualValues(t, []int{1, 2, 3}, days)
	assert.EqualValues(t, "shrines", merged.Days[0].Theme)
	assert.EqualValues(t, "day trip", merged.Days[2].Theme)
}

func TestMerge_NoDuplicateDayNumbers(t *testing.T) {
	merged := Merge(sampleDocument(), &Patch{Days: []Day{{Day: 2}, {Day: 2, Theme: "later wins"}}})

	assert.Len(t, merged.Days, 2)
	assert.EqualValues(t, "later wins", merged.Days[1].Theme)
}

func TestMerge_TotalsAndRisksWholesale(t *testing.T) {
	original := sampleDocument()

	merged := Merge(original, &Patch{Totals: map[string]float64{"food": 120}})
	assert.EqualValues(t, map[string]float64{"food": 120}, merged.Totals)
	assert.EqualValues(t, original.Risks, merged.Risks)

	merged = Merge(original, &Patch{Risks: []string{}})
	assert.Empty(t, merged.Risks)
	assert.EqualValues(t, original.Totals, merged.Totals)
}

func TestMerge_EmptyPatchIsNoOp(t *testing.T) {
	original := sampleDocument()
	assert.EqualValues(t, original, Merge(original, nil))
	assert.EqualValues(t, original, Merge(original, &Patch{}))
}

func TestMerge_Idempotence(t *testing.T) {
	original := sampleDocument()
	patch := &Patch{
		TripMeta: &MetaPatch{Title: strPtr("X")},
		Days:     []Day{{Day: 2, Theme: "X"}},
	}
	once := Merge(original, patch)
	again := Merge(once, &Patch{})
	assert.EqualValues(t, once, again)
}

func TestMerge_DoesNotMutateOriginal(t *testing.T) {
	original := sampleDocument()
	snapshot := sampleDocument()
	_ = Merge(original, &Patch{Days: []Day{{Day: 1, Theme: "changed"}, {Day: 9}}})
	assert.EqualValues(t, snapshot, original)
}
