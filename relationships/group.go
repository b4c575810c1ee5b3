package relationships

import (
	"fmt"
	"strings"
)

// Group is a coarse relationship-distance class. Its value is the column of the
// group in every likelihood row.
type Group int

const (
	GroupAA Group = iota
	GroupA
	GroupB
	GroupC
	GroupD
	GroupE
	GroupF
	GroupG
	GroupH
	GroupI
	GroupJPlus

	// NumGroups is the number of likelihood columns.
	NumGroups = int(GroupJPlus) + 1
)

var groupNames = [NumGroups]string{"AA", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J+"}

// AllGroups returns the groups in column order.
func AllGroups() []Group {
	out := make([]Group, NumGroups)
	for i := range out {
		out[i] = Group(i)
	}
	return out
}

// ParseGroup resolves a group name as it appears in the groupings resource.
func ParseGroup(name string) (Group, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range groupNames {
		if strings.EqualFold(n, trimmed) {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown group %q", ErrDataIntegrity, name)
}

// Valid reports whether g is one of the defined groups.
func (g Group) Valid() bool {
	return g >= GroupAA && g <= GroupJPlus
}

// Column returns the likelihood column index for g.
func (g Group) Column() int {
	return int(g)
}

func (g Group) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupNames[g]
}

// MarshalText renders the group by name, so JSON output reads "J+" rather than 10.
func (g Group) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: invalid group %d", ErrDataIntegrity, int(g))
	}
	return []byte(groupNames[g]), nil
}

// UnmarshalText is the inverse of MarshalText.
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
