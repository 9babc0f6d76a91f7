package pulse

// Headline is a single news entry: title and canonical link.
type Headline struct {
	Title string
	Link  string
}

// TermNews groups the headlines found for one search term.
type TermNews struct {
	Term  string
	Items []Headline
}

// NewsDigest is the ordered collection of headlines gathered for a run, one
// entry per search term that yielded results. Order follows the search-term
// order so the digest is deterministic run to run.
type NewsDigest []TermNews

// IsEmpty reports whether no term yielded any headline.
func (d NewsDigest) IsEmpty() bool { return len(d) == 0 }

// Terms returns the terms present in the digest, in order.
func (d NewsDigest) Terms() []string {
	terms := make([]string, len(d))
	for i, tn := range d {
		terms[i] = tn.Term
	}
	return terms
}
