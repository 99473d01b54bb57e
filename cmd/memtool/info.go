package main

import (
	"fmt"

	"memlayout/process"
	"memlayout/table"

	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	var showMap bool

	cmd := &cobra.Command{
		Use:           "info <process>",
		Short:         "Attach and print the pid, process base and guard",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			var regions []string
			if mapper, ok := m.Driver().(process.Mapper); ok {
				mm, err := mapper.MemoryMap()
				if err != nil {
					rootOpts.log.Warn("Failed to read memory map: ", err)
				}
				for _, r := range mm {
					regions = append(regions, fmt.Sprintf("%012x %012x %s %d %s", r.Address, r.End(), r.Perms, r.Size, r.Path))
				}
			}

			info := session.Process()
			t := table.New(
				table.ColumnSpec{Header: "PROCESS"},
				table.ColumnSpec{Header: "PID", AlignRight: true},
				table.ColumnSpec{Header: "BASE"},
				table.ColumnSpec{Header: "GUARD"},
				table.ColumnSpec{Header: "REGIONS", AlignRight: true},
			)
			t.AddRow(info.Name, fmt.Sprint(info.PID), m.Base().String(), m.Guard().String(), fmt.Sprint(len(regions)))

			out := cmd.OutOrStdout()
			if err := t.Render(out); err != nil {
				return err
			}
			if showMap {
				fmt.Fprintln(out)
				for _, line := range regions {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMap, "map", false, "list the mapped regions")

	return cmd
}
