package model

// MatchResult is the outcome of a local-store lookup for one remote variant.
// Exactly one of {Found, Ambiguous, neither} holds; Ambiguous implies no
// ProductID is reported.
type MatchResult struct {
	ProductID int64
	Found     bool
	Ambiguous bool
}

// NoMatch signals that a new local record should be created.
func NoMatch() MatchResult {
	return MatchResult{}
}

// SingleMatch reports the one local record corresponding to the variant.
func SingleMatch(productID int64) MatchResult {
	return MatchResult{ProductID: productID, Found: true}
}

// AmbiguousMatch reports that more than one local candidate exists. The
// engine refuses to guess among candidates.
func AmbiguousMatch() MatchResult {
	return MatchResult{Ambiguous: true}
}
