package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"puzzlearchive/internal/datex"
)

// baseInput returns an Input where every rule fails: an old date, no
// completion, no entitlement, no grants.
func baseInput() Input {
	return Input{
		PuzzleID:   "p1",
		ItemDate:   "2024-01-01",
		Today:      datex.MustParse("2025-06-15"),
		WindowDays: 7,
	}
}

func TestEvaluate_PriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		locked bool
		rule   Priority
	}{
		{
			name:   "nothing matches",
			mutate: func(in *Input) {},
			locked: true,
			rule:   PriorityNone,
		},
		{
			name:   "completed wins without entitlement",
			mutate: func(in *Input) { in.Completed = true },
			locked: false,
			rule:   PriorityCompleted,
		},
		{
			name:   "entitled unlocks old items",
			mutate: func(in *Input) { in.Entitled = true },
			locked: false,
			rule:   PriorityEntitled,
		},
		{
			name:   "completed beats entitled",
			mutate: func(in *Input) { in.Completed = true; in.Entitled = true },
			locked: false,
			rule:   PriorityCompleted,
		},
		{
			name:   "window unlocks recent items",
			mutate: func(in *Input) { in.ItemDate = "2025-06-15" },
			locked: false,
			rule:   PriorityFreeWindow,
		},
		{
			name:   "entitled beats window",
			mutate: func(in *Input) { in.Entitled = true; in.ItemDate = "2025-06-15" },
			locked: false,
			rule:   PriorityEntitled,
		},
		{
			name:   "grant unlocks an old item",
			mutate: func(in *Input) { in.Grants = NewGrantSet("p1") },
			locked: false,
			rule:   PriorityAdGrant,
		},
		{
			name:   "window beats grant",
			mutate: func(in *Input) { in.ItemDate = "2025-06-15"; in.Grants = NewGrantSet("p1") },
			locked: false,
			rule:   PriorityFreeWindow,
		},
		{
			name:   "grant for another item does not unlock",
			mutate: func(in *Input) { in.Grants = NewGrantSet("p2") },
			locked: true,
			rule:   PriorityNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)

			v := Evaluate(in)
			assert.Equal(t, tt.locked, v.Locked)
			assert.Equal(t, tt.rule, v.Rule)
			assert.Equal(t, tt.locked, Locked(in), "Locked must agree with Evaluate")
		})
	}
}

func TestEvaluate_DecisionTable(t *testing.T) {
	today := datex.MustParse("2025-06-15")
	const inWindowDate = "2025-06-14"
	const outsideDate = "2025-01-01"

	// all 16 combinations of (completed, entitled, in-window, has-grant)
	tests := []struct {
		completed, entitled, window, grant bool

		locked bool
		rule   Priority
	}{
		{false, false, false, false, true, PriorityNone},
		{false, false, false, true, false, PriorityAdGrant},
		{false, false, true, false, false, PriorityFreeWindow},
		{false, false, true, true, false, PriorityFreeWindow},
		{false, true, false, false, false, PriorityEntitled},
		{false, true, false, true, false, PriorityEntitled},
		{false, true, true, false, false, PriorityEntitled},
		{false, true, true, true, false, PriorityEntitled},
		{true, false, false, false, false, PriorityCompleted},
		{true, false, false, true, false, PriorityCompleted},
		{true, false, true, false, false, PriorityCompleted},
		{true, false, true, true, false, PriorityCompleted},
		{true, true, false, false, false, PriorityCompleted},
		{true, true, false, true, false, PriorityCompleted},
		{true, true, true, false, false, PriorityCompleted},
		{true, true, true, true, false, PriorityCompleted},
	}

	for _, tt := range tests {
		in := Input{
			PuzzleID:   "p1",
			Today:      today,
			WindowDays: 7,
			Completed:  tt.completed,
			Entitled:   tt.entitled,
		}
		if tt.window {
			in.ItemDate = inWindowDate
		} else {
			in.ItemDate = outsideDate
		}
		if tt.grant {
			in.Grants = NewGrantSet("p1")
		}

		v := Evaluate(in)
		assert.Equal(t, tt.locked, v.Locked,
			"completed=%t entitled=%t window=%t grant=%t", tt.completed, tt.entitled, tt.window, tt.grant)
		assert.Equal(t, tt.rule, v.Rule,
			"completed=%t entitled=%t window=%t grant=%t", tt.completed, tt.entitled, tt.window, tt.grant)
	}
}

func TestEvaluate_MalformedDates(t *testing.T) {
	for _, bad := range []string{"", "not-a-date", "2024-13-40", "01/02/2024", "2024-02-30"} {
		t.Run("locked/"+bad, func(t *testing.T) {
			in := baseInput()
			in.ItemDate = bad

			v := Evaluate(in)
			assert.True(t, v.Locked, "a bad date must resolve to outside-window, not unlock")
		})

		t.Run("falls through/"+bad, func(t *testing.T) {
			in := baseInput()
			in.ItemDate = bad
			in.Grants = NewGrantSet("p1")

			v := Evaluate(in)
			assert.False(t, v.Locked)
			assert.Equal(t, PriorityAdGrant, v.Rule, "remaining rules must still run")
		})
	}
}

func TestEvaluate_ZeroValueFailsClosed(t *testing.T) {
	v := Evaluate(Input{Today: datex.MustParse("2025-06-15"), WindowDays: 7})
	assert.True(t, v.Locked)
	assert.Equal(t, PriorityNone, v.Rule)
}

func TestPriority_String(t *testing.T) {
	assert.Equal(t, "none", PriorityNone.String())
	assert.Equal(t, "completed", PriorityCompleted.String())
	assert.Equal(t, "entitled", PriorityEntitled.String())
	assert.Equal(t, "free_window", PriorityFreeWindow.String())
	assert.Equal(t, "ad_grant", PriorityAdGrant.String())
	assert.Equal(t, "none", Priority(99).String())
}
