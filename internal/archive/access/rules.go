package access

import "puzzlearchive/internal/datex"

// Priority identifies the rule that unlocked an item. The declaration order
// below is the evaluation order of the chain; PriorityNone is the zero value
// and means no rule matched.
type Priority int

const (
	// PriorityNone: no rule unlocked the item; it is locked.
	PriorityNone Priority = iota

	// PriorityCompleted: a completed item stays viewable forever, regardless
	// of every other condition. This rule must stay first; moving it below
	// the entitlement check changes user-visible behavior for lapsed
	// subscribers.
	PriorityCompleted

	// PriorityEntitled: the subscription flag unlocks everything.
	PriorityEntitled

	// PriorityFreeWindow: the item date falls in the rolling free window.
	PriorityFreeWindow

	// PriorityAdGrant: a permanent per-item unlock grant.
	PriorityAdGrant
)

func (p Priority) String() string {
	switch p {
	case PriorityCompleted:
		return "completed"
	case PriorityEntitled:
		return "entitled"
	case PriorityFreeWindow:
		return "free_window"
	case PriorityAdGrant:
		return "ad_grant"
	default:
		return "none"
	}
}

// Input carries everything a single lock decision needs. The zero value of
// every field fails closed: no completion, no entitlement, no parseable date,
// no grants all leave the item locked.
type Input struct {
	PuzzleID   string
	ItemDate   string // "2006-01-02", or empty for dateless backlog items
	Today      datex.Date
	WindowDays int
	Completed  bool
	Entitled   bool
	Grants     GrantSet
}

// Verdict is the outcome of the rule chain.
type Verdict struct {
	Locked bool
	// Rule names the rule that unlocked the item; PriorityNone when locked.
	Rule Priority
}

type rule struct {
	priority Priority
	matches  func(Input) bool
}

// chain is the ordered rule list. The order is the contract: completed beats
// entitled, entitled beats the window, the window beats grants.
var chain = []rule{
	{PriorityCompleted, func(in Input) bool { return in.Completed }},
	{PriorityEntitled, func(in Input) bool { return in.Entitled }},
	{PriorityFreeWindow, inWindow},
	{PriorityAdGrant, func(in Input) bool { return in.Grants.Has(in.PuzzleID) }},
}

// inWindow resolves malformed or empty item dates to "outside the window"
// instead of erroring, so one bad record can never break a list evaluation.
func inWindow(in Input) bool {
	d, err := datex.Parse(in.ItemDate)
	if err != nil {
		return false
	}
	return InFreeWindow(d, in.Today, in.WindowDays)
}

// Evaluate runs the chain and reports the first matching rule.
func Evaluate(in Input) Verdict {
	for _, r := range chain {
		if r.matches(in) {
			return Verdict{Locked: false, Rule: r.priority}
		}
	}
	return Verdict{Locked: true, Rule: PriorityNone}
}

// Locked is the boolean form of Evaluate.
func Locked(in Input) bool {
	return Evaluate(in).Locked
}
