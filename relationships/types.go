package relationships

// Range is the inclusive cM interval in which a relationship is possible.
type Range struct {
	Key  string `json:"key"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Contains reports whether cm lies in [From, To].
func (r Range) Contains(cm float64) bool {
	return cm >= float64(r.From) && cm <= float64(r.To)
}

// Grouping describes one relationship and the likelihood group it belongs to.
type Grouping struct {
	Key      string `json:"key"`
	RelCode  string `json:"relCode"`
	Distance int    `json:"distance"`
	Group    Group  `json:"group"`
	FullName string `json:"fullName"`
}

// LikelihoodRow holds the percentage likelihood of every group at one cM anchor.
type LikelihoodRow struct {
	CM          float64            `json:"cm"`
	Likelihoods [NumGroups]float64 `json:"likelihoods"`
}

// Value returns the likelihood stored for g.
func (r LikelihoodRow) Value(g Group) float64 {
	return r.Likelihoods[g.Column()]
}

// Equal compares the likelihood vectors only; the anchor is ignored.
func (r LikelihoodRow) Equal(other LikelihoodRow) bool {
	return r.Likelihoods == other.Likelihoods
}

// Estimate is the interpolated probability of one matched relationship.
type Estimate struct {
	Grouping    Grouping `json:"grouping"`
	Probability float64  `json:"probability"`
}

// Bucket collects the relationship names that share one exact probability.
type Bucket struct {
	Probability float64  `json:"probability"`
	Names       []string `json:"names"`
}

// Result is the full answer to a single query.
type Result struct {
	Input     string        `json:"input"`
	Unit      Unit          `json:"unit"`
	CM        float64       `json:"cm"`
	Percent   float64       `json:"percent"`
	Notices   []ClampNotice `json:"notices,omitempty"`
	Estimates []Estimate    `json:"estimates"`
	Buckets   []Bucket      `json:"buckets"`
}

// Notice joins the clamp messages, or returns "" when the input was in range.
func (r Result) Notice() string {
	return joinNotices(r.Notices)
}
