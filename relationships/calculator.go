package relationships

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Calculator answers relationship queries against a fixed set of tables. It keeps no
// per-query state, so one Calculator may serve concurrent callers.
type Calculator struct {
	tables *Tables
	nf     *NumberFormat
	logger *slog.Logger
}

// NewCalculator constructs a calculator. A nil number format selects DefaultLocale and
// a nil logger discards output.
func NewCalculator(tables *Tables, nf *NumberFormat, logger *slog.Logger) (*Calculator, error) {
	if tables == nil {
		return nil, errors.New("tables are required")
	}
	if nf == nil {
		nf = MustNumberFormat(DefaultLocale)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Calculator{tables: tables, nf: nf, logger: logger}, nil
}

// Open loads the tables named by cfg (bundled ones unless DataDir is set) and builds a
// calculator using the configured locale.
func Open(cfg Config, logger *slog.Logger) (*Calculator, error) {
	cfg.ApplyDefaults()
	nf, err := cfg.NumberFormat()
	if err != nil {
		return nil, fmt.Errorf("number format: %w", err)
	}
	var tables *Tables
	source := "bundled"
	if cfg.DataDir != "" {
		source = cfg.DataDir
		tables, err = LoadTablesDir(cfg.DataDir, nf)
	} else {
		tables, err = DefaultTables()
	}
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	calc, err := NewCalculator(tables, nf, logger)
	if err != nil {
		return nil, err
	}
	calc.logger.Info("reference tables loaded",
		slog.String("source", source),
		slog.Int("ranges", len(tables.Ranges)),
		slog.Int("groupings", len(tables.Groupings)),
		slog.Int("anchors", len(tables.Likelihoods)),
		slog.String("locale", nf.Locale().String()))
	return calc, nil
}

// Tables returns the reference tables. Callers must not modify them.
func (c *Calculator) Tables() *Tables {
	return c.tables
}

// NumberFormat returns the format used to parse raw values.
func (c *Calculator) NumberFormat() *NumberFormat {
	return c.nf
}

// ComputeRelationships parses raw in the calculator's locale, normalizes it to cM and
// returns the probability buckets for that value.
func (c *Calculator) ComputeRelationships(raw string, unit Unit) (Result, error) {
	res := Result{Input: strings.TrimSpace(raw), Unit: unit}
	value, err := c.nf.ParseIn(raw, unit)
	if err != nil {
		return res, err
	}
	norm, err := Normalize(value, unit)
	if err != nil {
		return res, err
	}
	for _, n := range norm.Notices {
		c.logger.Info("input clamped",
			slog.String("unit", string(n.Unit)),
			slog.Float64("original", n.Original),
			slog.Float64("substituted", n.Substituted))
	}
	estimates, buckets, err := c.Compute(norm.CM)
	if err != nil {
		return res, err
	}
	res.CM = norm.CM
	res.Percent = norm.Percent
	res.Notices = norm.Notices
	res.Estimates = estimates
	res.Buckets = buckets
	c.logger.Debug("relationships computed",
		slog.Float64("cm", norm.CM),
		slog.String("unit", string(unit)),
		slog.Int("relationships", len(estimates)),
		slog.Int("buckets", len(buckets)))
	return res, nil
}

// Compute resolves, interpolates and aggregates for a cM value already inside
// [MinCM, MaxCM].
func (c *Calculator) Compute(cm float64) ([]Estimate, []Bucket, error) {
	groupings, err := c.tables.Resolve(cm)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %g cM: %w", cm, err)
	}
	low, high := c.tables.Bracket(cm)
	estimates := make([]Estimate, 0, len(groupings))
	for _, g := range groupings {
		if !g.Group.Valid() {
			return nil, nil, fmt.Errorf("%w: relationship %q has invalid group %d", ErrDataIntegrity, g.Key, int(g.Group))
		}
		estimates = append(estimates, Estimate{
			Grouping:    g,
			Probability: interpolate(cm, low, high, g.Group),
		})
	}
	return estimates, Aggregate(estimates), nil
}
