package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dnarelationships/relationships"
)

func validateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and cross-check the reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, calc, _, err := opts.load()
			if err != nil {
				return err
			}
			source := "bundled tables"
			if cfg.DataDir != "" {
				source = cfg.DataDir
			}
			return reportTables(cmd.OutOrStdout(), source, calc.Tables())
		},
	}
}

func reportTables(w io.Writer, source string, tables *relationships.Tables) error {
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Ranges: %d\nGroupings: %d\nLikelihood anchors: %d (%g-%g cM)\n",
		len(tables.Ranges), len(tables.Groupings), len(tables.Likelihoods),
		tables.Likelihoods[0].CM, tables.Likelihoods[len(tables.Likelihoods)-1].CM)
	gaps, err := coverageGaps(tables)
	if err != nil {
		return err
	}
	if len(gaps) == 0 {
		fmt.Fprintf(w, "Every whole cM value from %g to %g matches at least one relationship\n", relationships.MinCM, relationships.MaxCM)
		return nil
	}
	fmt.Fprintf(w, "cM values with no relationship: %d\n", len(gaps))
	for _, g := range gaps {
		if g[0] == g[1] {
			fmt.Fprintf(w, "    %d\n", g[0])
		} else {
			fmt.Fprintf(w, "    %d-%d\n", g[0], g[1])
		}
	}
	return nil
}

// coverageGaps returns inclusive runs of whole cM values that no range covers.
func coverageGaps(tables *relationships.Tables) ([][2]int, error) {
	var gaps [][2]int
	for cm := int(relationships.MinCM); cm <= int(relationships.MaxCM); cm++ {
		matches, err := tables.Resolve(float64(cm))
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			continue
		}
		if n := len(gaps); n > 0 && gaps[n-1][1] == cm-1 {
			gaps[n-1][1] = cm
			continue
		}
		gaps = append(gaps, [2]int{cm, cm})
	}
	return gaps, nil
}

func groupsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List relationships with their group and shared cM range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, calc, _, err := opts.load()
			if err != nil {
				return err
			}
			return printGroups(cmd.OutOrStdout(), calc.Tables())
		},
	}
}

func printGroups(w io.Writer, tables *relationships.Tables) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tCODE\tDISTANCE\tRANGE (cM)\tRELATIONSHIP")
	for _, r := range tables.Ranges {
		g, ok := tables.Grouping(r.Key)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d-%d\t%s\n", g.Group, g.RelCode, g.Distance, r.From, r.To, g.FullName)
	}
	return tw.Flush()
}
