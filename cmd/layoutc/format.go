package main

import (
	"fmt"
	"os"

	"memlayout/layout"

	"github.com/spf13/cobra"
)

// NewFmtCommand creates the fmt command
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <corpus>",
		Short: "Rewrite a corpus in the direct declaration form",
		Long: `Parse a corpus, including constexpr offset tables, and print every struct
in the direct "type name; // offset" form that generate reads.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}

			structs := layout.Structs(layout.Parse(string(corpus)))
			rootOpts.debug("Parsed", len(structs), "structs from", args[0])

			text := layout.Render(structs)
			if write {
				return os.WriteFile(args[0], []byte(text), 0644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the corpus file")

	return cmd
}
