package relationships

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroup_ResolvesEveryColumn(t *testing.T) {
	names := []string{"AA", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J+"}
	require.Len(t, names, NumGroups)
	for col, name := range names {
		g, err := ParseGroup(name)
		require.NoError(t, err, name)
		assert.Equal(t, col, g.Column())
		assert.Equal(t, name, g.String())
	}
}

func TestParseGroup_IsLenientAboutCaseAndSpace(t *testing.T) {
	g, err := ParseGroup(" j+ ")
	require.NoError(t, err)
	assert.Equal(t, GroupJPlus, g)
}

func TestParseGroup_UnknownIsDataIntegrityError(t *testing.T) {
	_, err := ParseGroup("K")
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestGroup_JSONUsesNames(t *testing.T) {
	data, err := json.Marshal(map[string]Group{"g": GroupJPlus})
	require.NoError(t, err)
	assert.JSONEq(t, `{"g":"J+"}`, string(data))

	var back map[string]Group
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, GroupJPlus, back["g"])
}

func TestGroup_InvalidValues(t *testing.T) {
	assert.False(t, Group(-1).Valid())
	assert.False(t, Group(NumGroups).Valid())
	assert.Equal(t, "Group(11)", Group(NumGroups).String())
	assert.Len(t, AllGroups(), NumGroups)
}
