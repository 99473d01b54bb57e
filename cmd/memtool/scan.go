package main

import (
	"fmt"

	"memlayout/attach"
	"memlayout/process"

	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan <process> <pattern>",
		Short: "Search readable memory for a byte pattern",
		Long: `Search every readable region for a pattern of hex bytes separated by spaces
or commas. "??" matches any byte.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			aob, err := process.ParseAOB(args[1])
			if err != nil {
				return err
			}

			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			matches, err := attach.Scan(m.Driver(), aob, rootOpts.Parallelism)
			if err != nil {
				return err
			}
			rootOpts.debug("Pattern", aob, "matched", len(matches), "times")

			out := cmd.OutOrStdout()
			for i, addr := range matches {
				if limit > 0 && i == limit {
					fmt.Fprintf(out, "... %d more\n", len(matches)-limit)
					break
				}
				fmt.Fprintln(out, addr)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches printed, 0 for all")

	return cmd
}
