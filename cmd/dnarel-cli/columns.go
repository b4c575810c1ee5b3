package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dnarelationships/relationships"
)

// columnRole is one column batch input is searched for, by explicit flag value or by
// header alias.
type columnRole struct {
	name     string
	explicit string
	aliases  []string
}

func batchRoles(opts batchColumns) []columnRole {
	return []columnRole{
		{name: "id", explicit: opts.ID, aliases: []string{"id", "index", "no", "name", "match", "matchname", "kit"}},
		{name: "value", explicit: opts.Value, aliases: []string{"cm", "centimorgans", "sharedcm", "totalcm", "value", "percent", "sharedpercent", "shared%", "%"}},
		{name: "unit", explicit: opts.Unit, aliases: []string{"unit", "uom"}},
	}
}

// batchColumns are the flag values naming columns, by header or 1-based "#N".
type batchColumns struct {
	ID    string
	Value string
	Unit  string
}

type columnSource string

const (
	sourceHeader   columnSource = "header"
	sourcePosition columnSource = "position"
	sourceDefault  columnSource = "default"
)

// column is where a role was found. Index is -1 when the file has no such column.
type column struct {
	Role   string
	Index  int
	Name   string
	Source columnSource
}

func (c column) found() bool {
	return c.Index >= 0
}

func (c column) String() string {
	if !c.found() {
		return c.Role + " column: none"
	}
	if c.Name != "" {
		return fmt.Sprintf("%s column: %q (#%d, %s)", c.Role, c.Name, c.Index+1, c.Source)
	}
	return fmt.Sprintf("%s column: #%d (%s)", c.Role, c.Index+1, c.Source)
}

type batchRecord struct {
	ID    string
	Value string
	Unit  string
}

// batchInput is a parsed batch file together with the columns that were used.
type batchInput struct {
	Records   []batchRecord
	Columns   []column
	HasHeader bool
}

func readBatchRecords(path string, opts batchColumns) (batchInput, error) {
	var in batchInput
	f, err := os.Open(path)
	if err != nil {
		return in, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(path, br)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return in, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return in, errors.New("empty input file")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = relationships.CleanCell(cell)
	}
	cols := make(map[string]column)
	for _, role := range batchRoles(opts) {
		c, err := locateColumn(header, role)
		if err != nil {
			return in, err
		}
		if c.Source == sourceHeader {
			in.HasHeader = true
		}
		cols[role.name] = c
		in.Columns = append(in.Columns, c)
	}
	value := cols["value"]
	if !value.found() {
		if in.HasHeader {
			return in, errors.New("no value column found; use --value-column")
		}
		value = column{Role: "value", Index: 0, Source: sourceDefault}
		cols["value"] = value
		in.Columns[1] = value
	}

	start := 0
	if in.HasHeader {
		start = 1
	}
	for _, row := range rows[start:] {
		rec := batchRecord{
			ID:    cellAt(row, cols["id"]),
			Value: cellAt(row, value),
			Unit:  cellAt(row, cols["unit"]),
		}
		if rec.Value == "" && rec.ID == "" {
			continue
		}
		in.Records = append(in.Records, rec)
	}
	return in, nil
}

// sniffDelimiter picks tab for .tsv files or when the first line has tabs but no
// commas; otherwise comma.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	line, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return ','
	}
	first := string(line)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if strings.Contains(first, "\t") && !strings.Contains(first, ",") {
		return '\t'
	}
	return ','
}

func cellAt(row []string, c column) string {
	if !c.found() || c.Index >= len(row) {
		return ""
	}
	return relationships.CleanCell(row[c.Index])
}

// headerKey folds a header for alias matching: case, spaces, '_' and '-' are ignored.
func headerKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// locateColumn resolves role against the header. An explicit "#N" selects by
// position, any other explicit value must name a header; without one the first
// header matching an alias wins.
func locateColumn(header []string, role columnRole) (column, error) {
	c := column{Role: role.name, Index: -1}
	explicit := strings.TrimSpace(role.explicit)
	if strings.HasPrefix(explicit, "#") {
		n, err := strconv.Atoi(strings.TrimSpace(explicit[1:]))
		if err != nil || n < 1 {
			return c, fmt.Errorf("--%s-column %q: want a header name or #1, #2, ...", role.name, role.explicit)
		}
		if n > len(header) {
			return c, fmt.Errorf("--%s-column %s is out of range: the file has %d columns", role.name, explicit, len(header))
		}
		c.Index, c.Source = n-1, sourcePosition
		return c, nil
	}
	want := []string{headerKey(explicit)}
	if explicit == "" {
		want = role.aliases
	}
	for i, h := range header {
		key := headerKey(h)
		for _, w := range want {
			if key == w {
				c.Index, c.Name, c.Source = i, h, sourceHeader
				return c, nil
			}
		}
	}
	if explicit != "" {
		return c, fmt.Errorf("--%s-column %q not found in header", role.name, role.explicit)
	}
	return c, nil
}
