package relationships

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func likelihoodRow(cm float64, values map[Group]float64) LikelihoodRow {
	row := LikelihoodRow{CM: cm}
	for g, v := range values {
		row.Likelihoods[g] = v
	}
	return row
}

// smallTables has anchors at 10, 100, 200 and 300 cM and four relationships spread
// over groups B, D and F.
func smallTables(t *testing.T) *Tables {
	t.Helper()
	ranges := []Range{
		{Key: "FirstCousin", From: 100, To: 300},
		{Key: "HalfFirstCousin", From: 50, To: 250},
		{Key: "SecondCousin", From: 1, To: 200},
		{Key: "ThirdCousin", From: 1, To: 120},
	}
	groupings := []Grouping{
		{Key: "FirstCousin", RelCode: "1C", Distance: 4, Group: GroupB, FullName: "1st Cousin"},
		{Key: "HalfFirstCousin", RelCode: "H1C", Distance: 4, Group: GroupD, FullName: "Half 1st Cousin"},
		{Key: "SecondCousin", RelCode: "2C", Distance: 6, Group: GroupD, FullName: "2nd Cousin"},
		{Key: "ThirdCousin", RelCode: "3C", Distance: 8, Group: GroupF, FullName: "3rd Cousin"},
	}
	likelihoods := []LikelihoodRow{
		likelihoodRow(10, map[Group]float64{GroupD: 20, GroupF: 80}),
		likelihoodRow(100, map[Group]float64{GroupB: 10, GroupD: 40, GroupF: 50}),
		likelihoodRow(200, map[Group]float64{GroupB: 30, GroupD: 60, GroupF: 10}),
		likelihoodRow(300, map[Group]float64{GroupB: 70, GroupD: 30}),
	}
	tables, err := NewTables(ranges, groupings, likelihoods)
	require.NoError(t, err)
	return tables
}
