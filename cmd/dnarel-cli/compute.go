package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dnarelationships/relationships"
)

func computeCommand(opts *globalOptions) *cobra.Command {
	var (
		unitFlag string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "compute VALUE",
		Short: "Show the likely relationships for one shared cM or percentage value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := relationships.ParseUnit(unitFlag)
			if err != nil {
				return err
			}
			_, calc, _, err := opts.load()
			if err != nil {
				return err
			}
			res, err := calc.ComputeRelationships(args[0], unit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(out, calc.NumberFormat(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&unitFlag, "unit", "u", "cm", "Unit of VALUE: cm or percent")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResult(w io.Writer, nf *relationships.NumberFormat, res relationships.Result) {
	for _, n := range res.Notices {
		fmt.Fprintf(w, "note: %s\n", n.Message())
	}
	fmt.Fprintf(w, "%s %% shared cM\n", nf.Format(res.Percent))
	fmt.Fprintf(w, "Centimorgans: %s\n", nf.Format(res.CM))
	if len(res.Buckets) == 0 {
		fmt.Fprintln(w, "No relationships found")
		return
	}
	fmt.Fprintln(w)
	for _, b := range res.Buckets {
		fmt.Fprintf(w, "%s%%\n", nf.Format(b.Probability))
		for _, name := range b.Names {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
}
