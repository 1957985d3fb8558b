package match

import "github.com/roach88/sieve/internal/ranges"

// Outcome classifies how a query range set relates to a candidate range
// set over the same value.
type Outcome uint8

const (
	NoMatch Outcome = iota
	ExactMatch
	MatchWithCompensation
)

var outcomeNames = [...]string{
	NoMatch:               "no_match",
	ExactMatch:            "exact",
	MatchWithCompensation: "compensated",
}

// String returns the snake_case outcome name used in scenarios and output.
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "outcome(?)"
}

// ParseOutcome is the inverse of String.
func ParseOutcome(s string) (Outcome, bool) {
	for o, name := range outcomeNames {
		if name == s {
			return Outcome(o), true
		}
	}
	return NoMatch, false
}

// Matched reports whether o is one of the two successful outcomes.
func (o Outcome) Matched() bool { return o != NoMatch }

// MatchRanges compares the disjunction of left against the disjunction of
// right.
//
// Every range in left must be definitely enclosed by some range in right,
// otherwise the result is NoMatch. A left range is matched exactly when one
// of its enclosers is also enclosed by it; the search for a left range stops
// at its first exact companion. If every left range is matched exactly the
// result is ExactMatch, otherwise MatchWithCompensation. Range order in
// either set does not affect the result.
func MatchRanges(left, right []ranges.Range) Outcome {
	exact := true
	for _, l := range left {
		enclosed, companion := false, false
		for _, r := range right {
			if !r.Encloses(l).IsTrue() {
				continue
			}
			enclosed = true
			if l.Encloses(r).IsTrue() {
				companion = true
				break
			}
		}
		if !enclosed {
			return NoMatch
		}
		exact = exact && companion
	}
	if exact {
		return ExactMatch
	}
	return MatchWithCompensation
}
