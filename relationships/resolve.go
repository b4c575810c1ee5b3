package relationships

import "fmt"

// Resolve returns the grouping of every relationship whose range contains cm, in
// range-table order. Overlapping ranges are expected; a relationship listed by two
// ranges appears twice.
func (t *Tables) Resolve(cm float64) ([]Grouping, error) {
	var out []Grouping
	for i, r := range t.Ranges {
		if !r.Contains(cm) {
			continue
		}
		g, ok := t.Grouping(r.Key)
		if !ok {
			return nil, &TableError{Resource: RangesFile, Line: i + 1, Err: fmt.Errorf("relationship %q has no grouping", r.Key)}
		}
		out = append(out, g)
	}
	return out, nil
}
