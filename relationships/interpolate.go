package relationships

import (
	"fmt"
	"math"
)

// Bracket selects the two anchors cm is interpolated between.
//
// The anchor nearest to cm is found first (earliest wins a tie). If cm lies below it
// the bracket is (previous, nearest); above it, (nearest, next). On an exact hit, past
// the last anchor or before the first one, both ends are the nearest anchor.
func (t *Tables) Bracket(cm float64) (low, high LikelihoodRow) {
	rows := t.Likelihoods
	nearest := 0
	best := math.Abs(cm - rows[0].CM)
	for i := 1; i < len(rows); i++ {
		if d := math.Abs(cm - rows[i].CM); d < best {
			best = d
			nearest = i
		}
	}
	anchor := rows[nearest]
	switch {
	case cm < anchor.CM && nearest > 0:
		return rows[nearest-1], anchor
	case cm > anchor.CM && nearest < len(rows)-1:
		return anchor, rows[nearest+1]
	default:
		return anchor, anchor
	}
}

// Interpolate returns the likelihood of group g at cm, linearly interpolated between
// the bracketing anchors.
func (t *Tables) Interpolate(cm float64, g Group) (float64, error) {
	if !g.Valid() {
		return 0, fmt.Errorf("%w: invalid group %d", ErrDataIntegrity, int(g))
	}
	low, high := t.Bracket(cm)
	return interpolate(cm, low, high, g), nil
}

func interpolate(cm float64, low, high LikelihoodRow, g Group) float64 {
	lowVal, highVal := low.Value(g), high.Value(g)
	if high.CM == low.CM {
		return lowVal
	}
	return ((high.CM-cm)*lowVal + (cm-low.CM)*highVal) / (high.CM - low.CM)
}
