package main

import (
	"fmt"

	"memlayout/search"
	"memlayout/table"

	"github.com/spf13/cobra"
)

// NewPathsCommand creates the paths command
func NewPathsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		kind  string
		depth int
		size  uint
		align uint
	)

	cmd := &cobra.Command{
		Use:   "paths <process> <address> <value>",
		Short: "Find pointer paths from an address to a value",
		Long: `Follow every pointer reachable from address and report the offset chains
that end at value. Each chain can be read back with the same offsets every
run, even when the objects along it move.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			want, err := search.ParseValue(kind, args[2])
			if err != nil {
				return err
			}

			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			results, err := search.Search(m, root,
				search.WithSearchForBytes(want),
				search.WithMaxDepth(depth),
				search.WithMaxStructSize(size),
				search.WithMinAlignment(align),
			)
			if err != nil {
				return err
			}
			rootOpts.debug("Found", len(results), "paths from", root)

			t := table.New(
				table.ColumnSpec{Header: "DEPTH", AlignRight: true},
				table.ColumnSpec{Header: "PATH"},
				table.ColumnSpec{Header: "ADDRESS"},
			)
			for _, r := range results {
				addr, err := r.Address(m, root)
				if err != nil {
					t.AddRow(fmt.Sprint(len(r.Path)-1), r.String(), "error: "+err.Error())
					continue
				}
				t.AddRow(fmt.Sprint(len(r.Path)-1), r.String(), addr.String())
			}
			return t.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "u32", "value type: u8 u16 u32 u64 i8 i16 i32 i64 f32 f64 ptr")
	cmd.Flags().IntVar(&depth, "depth", 3, "maximum pointers followed")
	cmd.Flags().UintVar(&size, "size", 256, "bytes searched in each structure")
	cmd.Flags().UintVar(&align, "align", 4, "alignment of candidate values")

	return cmd
}
