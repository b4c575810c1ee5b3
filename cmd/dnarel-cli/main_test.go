package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnarelationships/relationships"
)

func testCalculator(t *testing.T) *relationships.Calculator {
	t.Helper()
	ranges := []relationships.Range{
		{Key: "FirstCousin", From: 100, To: 300},
		{Key: "SecondCousin", From: 1, To: 200},
	}
	groupings := []relationships.Grouping{
		{Key: "FirstCousin", RelCode: "1C", Distance: 4, Group: relationships.GroupB, FullName: "1st Cousin"},
		{Key: "SecondCousin", RelCode: "2C", Distance: 6, Group: relationships.GroupD, FullName: "2nd Cousin"},
	}
	var low, high relationships.LikelihoodRow
	low.CM, high.CM = 100, 200
	low.Likelihoods[relationships.GroupB], low.Likelihoods[relationships.GroupD] = 10, 40
	high.Likelihoods[relationships.GroupB], high.Likelihoods[relationships.GroupD] = 30, 60
	tables, err := relationships.NewTables(ranges, groupings, []relationships.LikelihoodRow{low, high})
	require.NoError(t, err)
	calc, err := relationships.NewCalculator(tables, nil, nil)
	require.NoError(t, err)
	return calc
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv(relationships.EnvLocale, "")
	t.Setenv(relationships.EnvDataDir, "")
	t.Setenv(relationships.EnvLogLevel, "")
}

func TestLocateColumn(t *testing.T) {
	header := []string{"Match Name", "Shared cM", "Unit"}
	value := batchRoles(batchColumns{})[1]

	c, err := locateColumn(header, value)
	require.NoError(t, err)
	assert.Equal(t, column{Role: "value", Index: 1, Name: "Shared cM", Source: sourceHeader}, c)
	assert.Equal(t, `value column: "Shared cM" (#2, header)`, c.String())

	value.explicit = "#3"
	c, err = locateColumn(header, value)
	require.NoError(t, err)
	assert.Equal(t, column{Role: "value", Index: 2, Source: sourcePosition}, c)

	value.explicit = "match_name"
	c, err = locateColumn(header, value)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)

	for explicit, msg := range map[string]string{
		"#9":    "out of range",
		"#0":    "#1, #2",
		"#x":    "#1, #2",
		"total": "not found",
	} {
		value.explicit = explicit
		_, err = locateColumn(header, value)
		assert.ErrorContains(t, err, msg, explicit)
	}

	c, err = locateColumn([]string{"a", "b"}, batchRoles(batchColumns{})[2])
	require.NoError(t, err)
	assert.False(t, c.found())
	assert.Equal(t, "unit column: none", c.String())
}

func TestReadBatchRecords_WithHeader(t *testing.T) {
	path := writeFile(t, "matches.csv", "\ufeffName,cM,Unit\nAlice,150,\nBob,2.5,percent\n,,\n")

	in, err := readBatchRecords(path, batchColumns{})
	require.NoError(t, err)
	assert.True(t, in.HasHeader)
	assert.Equal(t, []batchRecord{
		{ID: "Alice", Value: "150"},
		{ID: "Bob", Value: "2.5", Unit: "percent"},
	}, in.Records)
	require.Len(t, in.Columns, 3)
	assert.Equal(t, "Name", in.Columns[0].Name)
	assert.Equal(t, "cM", in.Columns[1].Name)
}

func TestReadBatchRecords_Headerless(t *testing.T) {
	for _, name := range []string{"values.tsv", "values.csv"} {
		path := writeFile(t, name, "150\n3000\n")

		in, err := readBatchRecords(path, batchColumns{})
		require.NoError(t, err, name)
		assert.False(t, in.HasHeader)
		assert.Equal(t, []batchRecord{{Value: "150"}, {Value: "3000"}}, in.Records)
		assert.Equal(t, sourceDefault, in.Columns[1].Source)
	}
}

func TestReadBatchRecords_TabsDetectedWithoutExtension(t *testing.T) {
	path := writeFile(t, "export.txt", "Match\tShared cM\nAlice\t1,250\n")

	in, err := readBatchRecords(path, batchColumns{})
	require.NoError(t, err)
	assert.Equal(t, []batchRecord{{ID: "Alice", Value: "1,250"}}, in.Records)
}

func TestReadBatchRecords_HeaderWithoutValueColumn(t *testing.T) {
	path := writeFile(t, "matches.csv", "Name,Notes\nAlice,150\n")

	_, err := readBatchRecords(path, batchColumns{})
	assert.ErrorContains(t, err, "--value-column")

	in, err := readBatchRecords(path, batchColumns{Value: "notes"})
	require.NoError(t, err)
	assert.Equal(t, []batchRecord{{ID: "Alice", Value: "150"}}, in.Records)
}

func TestRunBatch(t *testing.T) {
	calc := testCalculator(t)
	records := []batchRecord{
		{ID: "a", Value: "150"},
		{ID: "b", Value: "lots"},
		{ID: "c", Value: "50", Unit: "percent"},
	}
	var buf bytes.Buffer

	failed, err := runBatch(&buf, calc, records, relationships.UnitCM, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, resultHeader, rows[0])
	assert.Equal(t, []string{"a", "150", "cm", "150", "2.01", "", "", "50", "2nd Cousin"}, rows[1])
	assert.Equal(t, []string{"a", "150", "cm", "150", "2.01", "", "", "20", "1st Cousin"}, rows[2])
	assert.Equal(t, "b", rows[3][0])
	assert.Contains(t, rows[3][6], "invalid input")
	assert.Equal(t, "c", rows[4][0])
	assert.Equal(t, "3,720", rows[4][3])
	assert.Equal(t, "Maximum centimorgan value of 3720 has been substituted", rows[4][5])
	assert.Empty(t, rows[4][7])
}

func TestResultPath(t *testing.T) {
	dir := t.TempDir()

	explicit, err := resultPath(filepath.Join(dir, "out", "r.csv"), "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "r.csv"), explicit)
	assert.DirExists(t, filepath.Join(dir, "out"))

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	generated, err := resultPath("", filepath.Join(dir, "results"), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results", "result_20260304050607.csv"), generated)
}

func TestWriteResultFile_AbortLeavesNothing(t *testing.T) {
	calc := testCalculator(t)
	tables := calc.Tables()
	tables.Ranges = append(tables.Ranges, relationships.Range{Key: "Ghost", From: 1, To: 3720})
	dir := t.TempDir()
	path := filepath.Join(dir, "result.csv")

	err := writeResultFile(path, func(w io.Writer) error {
		_, err := runBatch(w, calc, []batchRecord{{ID: "a", Value: "150"}}, relationships.UnitCM, nil)
		return err
	})
	assert.ErrorIs(t, err, relationships.ErrDataIntegrity)
	assert.NoFileExists(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteResultFile_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")

	err := writeResultFile(path, func(w io.Writer) error {
		_, err := runBatch(w, testCalculator(t), []batchRecord{{ID: "a", Value: "150"}}, relationships.UnitCM, nil)
		return err
	})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2nd Cousin")
}

func TestBatchCommand(t *testing.T) {
	clearEnv(t)
	input := writeFile(t, "matches.csv", "Match,Shared cM\nAlice,150\nBob,oops\n")
	output := filepath.Join(t.TempDir(), "out.csv")
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"batch", "--input", input, "--output", output,
		"--config", filepath.Join(t.TempDir(), "config.yaml"), "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	text := out.String()
	assert.Contains(t, text, `value column: "Shared cM" (#2, header)`)
	assert.Contains(t, text, "1 values could not be read")
	assert.FileExists(t, output)
}

func TestConfigInitAndShow(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", path, "--locale", "de-DE"})
	require.NoError(t, cmd.Execute())

	cfg, err := relationships.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Locale)

	cmd = rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", path})
	assert.ErrorContains(t, cmd.Execute(), "already exists")

	cmd = rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", path, "--force"})
	require.NoError(t, cmd.Execute())
	cfg, err = relationships.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, relationships.DefaultLocale, cfg.Locale)

	cmd = rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "show", "--config", path, "--log-level", "debug"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "locale: en-CA")
	assert.Contains(t, out.String(), "log_level: debug")
}

func TestConfigInit_RejectsBadLocale(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", path, "--locale", "not a locale!"})

	assert.Error(t, cmd.Execute())
	assert.NoFileExists(t, path)
}

func TestCoverageGaps(t *testing.T) {
	gaps, err := coverageGaps(testCalculator(t).Tables())
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{301, 3720}}, gaps)
}

func TestPrintGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printGroups(&buf, testCalculator(t).Tables()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RELATIONSHIP")
	assert.Contains(t, lines[1], "1st Cousin")
	assert.Contains(t, lines[1], "100-300")
	assert.Contains(t, lines[2], "2nd Cousin")
}

func TestComputeCommand_BundledTables(t *testing.T) {
	clearEnv(t)
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"compute", "150", "--config", filepath.Join(t.TempDir(), "config.yaml"), "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2.01 % shared cM")
	assert.Contains(t, out.String(), "Centimorgans: 150")
}

func TestComputeCommand_ClampNote(t *testing.T) {
	clearEnv(t)
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"compute", "150", "--unit", "percent", "--config", filepath.Join(t.TempDir(), "config.yaml"), "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	text := out.String()
	assert.Contains(t, text, "note: Maximum percentage value of 100 has been substituted")
	assert.Contains(t, text, "Centimorgans: 3,720")
}

func TestComputeCommand_InvalidUnit(t *testing.T) {
	clearEnv(t)
	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"compute", "150", "--unit", "feet"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, relationships.ErrInvalidInput)
}
