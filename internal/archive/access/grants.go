package access

// GrantSet answers membership for permanent ad-unlock grants. Grants never
// expire, so the set carries ids only; when an item was granted is irrelevant
// to the decision.
type GrantSet map[string]struct{}

// NewGrantSet builds a set from puzzle ids. Empty ids are dropped.
func NewGrantSet(ids ...string) GrantSet {
	s := make(GrantSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether puzzleID holds a grant. An empty id or an empty set is
// always false.
func (s GrantSet) Has(puzzleID string) bool {
	if puzzleID == "" || len(s) == 0 {
		return false
	}
	_, ok := s[puzzleID]
	return ok
}
