package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dnarelationships/relationships"
)

type batchOptions struct {
	inputPath string
	output    string
	outputDir string
	unit      string
	columns   batchColumns
}

func batchCommand(opts *globalOptions) *cobra.Command {
	bo := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute relationships for every value in a CSV/TSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(bo.inputPath) == "" {
				return errors.New("missing required --input file")
			}
			defaultUnit, err := relationships.ParseUnit(bo.unit)
			if err != nil {
				return err
			}
			_, calc, logger, err := opts.load()
			if err != nil {
				return err
			}
			in, err := readBatchRecords(bo.inputPath, bo.columns)
			if err != nil {
				return fmt.Errorf("read input records: %w", err)
			}
			if len(in.Records) == 0 {
				return errors.New("input file does not contain any values")
			}
			out := cmd.OutOrStdout()
			for _, c := range in.Columns {
				fmt.Fprintln(out, c)
			}
			outputPath, err := resultPath(bo.output, bo.outputDir, time.Now())
			if err != nil {
				return err
			}
			var failed int
			err = writeResultFile(outputPath, func(w io.Writer) (err error) {
				failed, err = runBatch(w, calc, in.Records, defaultUnit, logger)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote results for %d values to %s\n", len(in.Records), outputPath)
			if failed > 0 {
				fmt.Fprintf(out, "%d values could not be read; see the error column\n", failed)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&bo.inputPath, "input", "", "CSV/TSV file containing cM or percentage values")
	flags.StringVar(&bo.output, "output", "", "CSV file to write results (default uses --output-dir/result_*.csv)")
	flags.StringVar(&bo.outputDir, "output-dir", "csv", "Directory where result CSVs are written when --output is omitted")
	flags.StringVar(&bo.unit, "unit", "cm", "Unit for rows without a unit column: cm or percent")
	flags.StringVar(&bo.columns.ID, "id-column", "", "Column name or #index identifying each row")
	flags.StringVar(&bo.columns.Value, "value-column", "", "Column name or #index holding the value")
	flags.StringVar(&bo.columns.Unit, "unit-column", "", "Column name or #index holding a per-row unit")
	return cmd
}

var resultHeader = []string{"id", "input", "unit", "cm", "percent", "notice", "error", "probability", "relationships"}

// runBatch writes one row per probability bucket. Unreadable input values are
// reported in the error column; data-integrity failures abort the whole batch.
func runBatch(w io.Writer, calc *relationships.Calculator, records []batchRecord, defaultUnit relationships.Unit, logger *slog.Logger) (int, error) {
	nf := calc.NumberFormat()
	writer := csv.NewWriter(w)
	if err := writer.Write(resultHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	failed := 0
	for i, rec := range records {
		unit := defaultUnit
		var res relationships.Result
		var err error
		if rec.Unit != "" {
			unit, err = relationships.ParseUnit(rec.Unit)
		}
		if err == nil {
			res, err = calc.ComputeRelationships(rec.Value, unit)
		}
		if err != nil {
			if !errors.Is(err, relationships.ErrInvalidInput) {
				return failed, fmt.Errorf("row %d: %w", i+1, err)
			}
			failed++
			if logger != nil {
				logger.Warn("skipping unreadable value", slog.Int("row", i+1), slog.String("value", rec.Value), slog.Any("error", err))
			}
			unitCell := string(unit)
			if rec.Unit != "" {
				unitCell = rec.Unit
			}
			if err := writer.Write([]string{rec.ID, rec.Value, unitCell, "", "", "", err.Error(), "", ""}); err != nil {
				return failed, fmt.Errorf("write row %d: %w", i+1, err)
			}
			continue
		}
		base := []string{rec.ID, rec.Value, string(unit), nf.Format(res.CM), nf.Format(res.Percent), res.Notice(), ""}
		if len(res.Buckets) == 0 {
			if err := writer.Write(append(base, "", "")); err != nil {
				return failed, fmt.Errorf("write row %d: %w", i+1, err)
			}
			continue
		}
		for _, b := range res.Buckets {
			row := append(append([]string(nil), base...), nf.Format(b.Probability), strings.Join(b.Names, "; "))
			if err := writer.Write(row); err != nil {
				return failed, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return failed, fmt.Errorf("flush result: %w", err)
	}
	return failed, nil
}

// resultPath returns the file a batch writes to: output when given, otherwise a
// result_<timestamp>.csv inside dir. The parent directory is created.
func resultPath(output, dir string, now time.Time) (string, error) {
	path := output
	if path == "" {
		if dir == "" {
			dir = "csv"
		}
		path = filepath.Join(dir, "result_"+now.Format("20060102150405")+".csv")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return abs, nil
}

// writeResultFile streams fn's output into a temporary file beside path and renames
// it into place only when fn succeeds, so a failed batch leaves no result behind.
func writeResultFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close result file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename result file: %w", err)
	}
	return nil
}
