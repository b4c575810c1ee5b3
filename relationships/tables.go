package relationships

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"
)

// Resource file names, both in the embedded data directory and in override directories.
const (
	RangesFile      = "ranges.csv"
	GroupingsFile   = "groupings.csv"
	LikelihoodsFile = "likelihoods.csv"
)

const (
	rangeFields    = 3
	groupingFields = 5
)

//go:embed data/*.csv
var bundledData embed.FS

// Tables holds the three reference tables. A Tables value is never modified after
// NewTables returns, so it may be shared between goroutines.
type Tables struct {
	Ranges      []Range
	Groupings   []Grouping
	Likelihoods []LikelihoodRow

	byKey map[string]int
}

// NewTables validates the three tables against each other and indexes groupings by key.
func NewTables(ranges []Range, groupings []Grouping, likelihoods []LikelihoodRow) (*Tables, error) {
	if len(ranges) == 0 {
		return nil, tableErrorf(RangesFile, 0, "no ranges")
	}
	if len(groupings) == 0 {
		return nil, tableErrorf(GroupingsFile, 0, "no groupings")
	}
	if len(likelihoods) == 0 {
		return nil, tableErrorf(LikelihoodsFile, 0, "no likelihood rows")
	}
	byKey := make(map[string]int, len(groupings))
	for i, g := range groupings {
		if !g.Group.Valid() {
			return nil, tableErrorf(GroupingsFile, i+1, "relationship %q has invalid group %d", g.Key, int(g.Group))
		}
		if _, dup := byKey[g.Key]; dup {
			return nil, tableErrorf(GroupingsFile, i+1, "duplicate relationship %q", g.Key)
		}
		byKey[g.Key] = i
	}
	for i, r := range ranges {
		if r.From > r.To {
			return nil, tableErrorf(RangesFile, i+1, "range %d-%d for %q is inverted", r.From, r.To, r.Key)
		}
		if _, ok := byKey[r.Key]; !ok {
			return nil, tableErrorf(RangesFile, i+1, "relationship %q has no grouping", r.Key)
		}
	}
	for i, row := range likelihoods {
		if i > 0 && row.CM <= likelihoods[i-1].CM {
			return nil, tableErrorf(LikelihoodsFile, i+1, "anchor %g does not follow %g", row.CM, likelihoods[i-1].CM)
		}
		for col, v := range row.Likelihoods {
			if math.IsNaN(v) || v < 0 || v > 100 {
				return nil, tableErrorf(LikelihoodsFile, i+1, "group %s likelihood %g outside [0,100]", Group(col), v)
			}
		}
	}
	return &Tables{
		Ranges:      ranges,
		Groupings:   groupings,
		Likelihoods: likelihoods,
		byKey:       byKey,
	}, nil
}

// Grouping returns the grouping for a relationship key.
func (t *Tables) Grouping(key string) (Grouping, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Grouping{}, false
	}
	return t.Groupings[i], true
}

// DefaultTables parses the reference tables compiled into the binary. They are always
// written in DefaultLocale, whatever locale the caller queries in.
func DefaultTables() (*Tables, error) {
	sub, err := fs.Sub(bundledData, "data")
	if err != nil {
		return nil, fmt.Errorf("open bundled data: %w", err)
	}
	return LoadTablesFS(sub, MustNumberFormat(DefaultLocale))
}

// LoadTablesDir reads ranges.csv, groupings.csv and likelihoods.csv from dir, parsing
// numbers with nf.
func LoadTablesDir(dir string, nf *NumberFormat) (*Tables, error) {
	return LoadTablesFS(os.DirFS(dir), nf)
}

// LoadTablesFS reads the three resources from the root of fsys. Either all three load
// and validate, or an error is returned.
func LoadTablesFS(fsys fs.FS, nf *NumberFormat) (*Tables, error) {
	if nf == nil {
		nf = MustNumberFormat(DefaultLocale)
	}
	var (
		ranges      []Range
		groupings   []Grouping
		likelihoods []LikelihoodRow
	)
	err := withResource(fsys, RangesFile, func(r io.Reader) (err error) {
		ranges, err = ParseRanges(r, nf)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = withResource(fsys, GroupingsFile, func(r io.Reader) (err error) {
		groupings, err = ParseGroupings(r, nf)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = withResource(fsys, LikelihoodsFile, func(r io.Reader) (err error) {
		likelihoods, err = ParseLikelihoods(r, nf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewTables(ranges, groupings, likelihoods)
}

func withResource(fsys fs.FS, name string, fn func(io.Reader) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return fn(f)
}

// ParseRanges reads "fromDistance,toDistance,relationshipKey" records.
func ParseRanges(r io.Reader, nf *NumberFormat) ([]Range, error) {
	var out []Range
	err := readRecords(r, RangesFile, func(line int, fields []string) error {
		if len(fields) != rangeFields {
			return tableErrorf(RangesFile, line, "want %d fields, got %d", rangeFields, len(fields))
		}
		from, err := nf.ParseInt(fields[0])
		if err != nil {
			return &TableError{Resource: RangesFile, Line: line, Err: err}
		}
		to, err := nf.ParseInt(fields[1])
		if err != nil {
			return &TableError{Resource: RangesFile, Line: line, Err: err}
		}
		if fields[2] == "" {
			return tableErrorf(RangesFile, line, "empty relationship key")
		}
		out = append(out, Range{Key: fields[2], From: from, To: to})
		return nil
	})
	return out, err
}

// ParseGroupings reads "relationshipKey,relCode,distance,group,relationshipFullName" records.
func ParseGroupings(r io.Reader, nf *NumberFormat) ([]Grouping, error) {
	var out []Grouping
	err := readRecords(r, GroupingsFile, func(line int, fields []string) error {
		if len(fields) != groupingFields {
			return tableErrorf(GroupingsFile, line, "want %d fields, got %d", groupingFields, len(fields))
		}
		distance, err := nf.ParseInt(fields[2])
		if err != nil {
			return &TableError{Resource: GroupingsFile, Line: line, Err: err}
		}
		group, err := ParseGroup(fields[3])
		if err != nil {
			return &TableError{Resource: GroupingsFile, Line: line, Err: err}
		}
		if fields[0] == "" {
			return tableErrorf(GroupingsFile, line, "empty relationship key")
		}
		out = append(out, Grouping{
			Key:      fields[0],
			RelCode:  fields[1],
			Distance: distance,
			Group:    group,
			FullName: fields[4],
		})
		return nil
	})
	return out, err
}

// ParseLikelihoods reads "cmBasis,v0,...,v10" records, one per anchor.
func ParseLikelihoods(r io.Reader, nf *NumberFormat) ([]LikelihoodRow, error) {
	var out []LikelihoodRow
	want := NumGroups + 1
	err := readRecords(r, LikelihoodsFile, func(line int, fields []string) error {
		if len(fields) != want {
			return tableErrorf(LikelihoodsFile, line, "want %d fields, got %d", want, len(fields))
		}
		var row LikelihoodRow
		var err error
		if row.CM, err = nf.Parse(fields[0]); err != nil {
			return &TableError{Resource: LikelihoodsFile, Line: line, Err: err}
		}
		for i, field := range fields[1:] {
			if row.Likelihoods[i], err = nf.Parse(field); err != nil {
				return &TableError{Resource: LikelihoodsFile, Line: line, Err: fmt.Errorf("group %s: %w", Group(i), err)}
			}
		}
		out = append(out, row)
		return nil
	})
	return out, err
}

// readRecords feeds each non-blank record to fn with its 1-based line number.
func readRecords(r io.Reader, resource string, fn func(line int, fields []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &TableError{Resource: resource, Err: fmt.Errorf("read: %w", err)}
		}
		line, _ := reader.FieldPos(0)
		fields := make([]string, len(record))
		blank := true
		for i, cell := range record {
			fields[i] = CleanCell(cell)
			if fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
}

// CleanCell trims surrounding whitespace and a leading byte-order mark from a CSV cell.
func CleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
