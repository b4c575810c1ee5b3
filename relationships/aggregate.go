package relationships

import "sort"

// Aggregate merges estimates with exactly equal probabilities into one bucket and
// orders the buckets by probability, highest first. Names keep their input order.
func Aggregate(estimates []Estimate) []Bucket {
	buckets := make([]Bucket, 0, len(estimates))
	index := make(map[float64]int, len(estimates))
	for _, e := range estimates {
		if i, ok := index[e.Probability]; ok {
			buckets[i].Names = append(buckets[i].Names, e.Grouping.FullName)
			continue
		}
		index[e.Probability] = len(buckets)
		buckets = append(buckets, Bucket{
			Probability: e.Probability,
			Names:       []string{e.Grouping.FullName},
		})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Probability > buckets[j].Probability
	})
	return buckets
}
