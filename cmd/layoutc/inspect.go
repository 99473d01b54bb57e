package main

import (
	"fmt"
	"os"

	"memlayout/compiler"
	"memlayout/layout"
	"memlayout/table"

	"github.com/spf13/cobra"
)

type inspectOptions struct {
	root    string
	externs map[string]string
}

// NewInspectCommand creates the inspect command
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <corpus> [struct...]",
		Short: "Print the flattened fields of a corpus",
		Long: `Compile a corpus and print every struct's flattened field set with the
owner, byte offset and bit range of each field, followed by any diagnostics.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "root type of the object hierarchy")
	cmd.Flags().StringToStringVar(&opts.externs, "extern", nil, "extern value type as Schema=GoType")

	return cmd
}

func runInspect(rootOpts *RootOptions, opts *inspectOptions, path string, only []string, cmd *cobra.Command) error {
	corpus, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	schema, err := compiler.Compile(layout.Parse(string(corpus)), compiler.Options{
		RootType:    opts.root,
		ExternTypes: opts.externs,
	})
	if err != nil {
		return err
	}

	structs := schema.Structs
	if len(only) > 0 {
		structs = nil
		for _, name := range only {
			st, ok := schema.Lookup(name)
			if !ok {
				return fmt.Errorf("no struct %s in %s", name, path)
			}
			structs = append(structs, st)
		}
	}
	rootOpts.debug("Inspecting", len(structs), "of", len(schema.Structs), "structs")

	var offsetFormat table.FormatFunc
	if rootOpts.Color {
		offsetFormat = table.ColorYellow
	}
	t := table.New(
		table.ColumnSpec{Header: "STRUCT", BlankValue: " "},
		table.ColumnSpec{Header: "FIELD"},
		table.ColumnSpec{Header: "OWNER"},
		table.ColumnSpec{Header: "OFFSET", AlignRight: true, FormatFunc: offsetFormat},
		table.ColumnSpec{Header: "BITS"},
		table.ColumnSpec{Header: "KIND"},
		table.ColumnSpec{Header: "TYPE"},
	)

	for i, st := range structs {
		if i > 0 {
			t.AddSeparator()
		}
		name := st.Name
		if len(st.Fields) == 0 {
			t.AddRow(name)
			continue
		}
		for _, acc := range st.Fields {
			t.AddRow(name, acc.Field.Name, acc.Owner, fmt.Sprintf("0x%X", acc.Offset.Byte), bitRange(acc), acc.Kind.String(), acc.GoType)
			name = ""
		}
	}

	out := cmd.OutOrStdout()
	if err := t.Render(out); err != nil {
		return err
	}
	for _, d := range schema.Diagnostics {
		fmt.Fprintln(out, "warning:", d.String())
	}
	return nil
}

func bitRange(acc compiler.Accessor) string {
	switch acc.Kind {
	case compiler.Bit:
		return fmt.Sprint(acc.Offset.Shift)
	case compiler.Bits:
		return fmt.Sprintf("%d-%d", acc.Offset.Shift, acc.Offset.Shift+acc.Offset.Width-1)
	}
	return ""
}
