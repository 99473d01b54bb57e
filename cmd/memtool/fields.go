package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"memlayout/compiler"
	"memlayout/layout"
	"memlayout/memory"
	"memlayout/process"
	"memlayout/process_blob"
	"memlayout/table"

	"github.com/derekparker/trie"
	"github.com/spf13/cobra"
)

type schemaOptions struct {
	root    string
	externs map[string]string
}

func (o *schemaOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.root, "root", "", "root type of the object hierarchy")
	cmd.Flags().StringToStringVar(&o.externs, "extern", nil, "extern value type as Schema=GoType")
}

// load compiles the corpus at path and returns the named struct
func (o *schemaOptions) load(path, name string) (*compiler.Struct, error) {
	corpus, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	schema, err := compiler.Compile(layout.Parse(string(corpus)), compiler.Options{
		RootType:    o.root,
		ExternTypes: o.externs,
	})
	if err != nil {
		return nil, err
	}

	structs := trie.New()
	for _, st := range schema.Structs {
		structs.Add(st.Name, st)
	}
	node, ok := structs.Find(name)
	if !ok {
		return nil, fmt.Errorf("no struct %s in %s%s: %w", name, path, suggest(structs, name), process.InvalidArgument)
	}
	return node.Meta().(*compiler.Struct), nil
}

// findField matches the declared name, the snake case name or the Go name
func findField(st *compiler.Struct, name string) (compiler.Accessor, error) {
	fields := trie.New()
	for _, acc := range st.Fields {
		fields.Add(acc.Field.Name, acc)
		fields.Add(acc.Name, acc)
		fields.Add(acc.GoName, acc)
	}
	node, ok := fields.Find(name)
	if !ok {
		return compiler.Accessor{}, fmt.Errorf("no field %s in %s%s: %w", name, st.Name, suggest(fields, name), process.InvalidArgument)
	}
	return node.Meta().(compiler.Accessor), nil
}

const maxSuggestions = 3

// suggest lists the keys fuzzily matching name, as an error message suffix
func suggest(t *trie.Trie, name string) string {
	matches := t.FuzzySearch(name)
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(matches, ", "))
}

func formatValue(v any) string {
	switch x := v.(type) {
	case memory.Address:
		return x.String()
	case string:
		return strconv.Quote(x)
	case memory.TArray[byte]:
		return fmt.Sprintf("[%d/%d] at %s", x.Num, x.Max, x.Data)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	}
	return fmt.Sprint(v)
}

// NewReadCommand creates the read command
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &schemaOptions{}
	var only []string

	cmd := &cobra.Command{
		Use:   "read <process> <corpus> <struct> <addr>",
		Short: "Read the fields of a struct instance",
		Long: `Compile the corpus, then read every flattened field of struct at addr.
A field that fails to read shows its error and the remaining fields are still read.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.load(args[1], args[2])
			if err != nil {
				return err
			}
			base, err := parseAddress(args[3])
			if err != nil {
				return err
			}

			fields := st.Fields
			if len(only) > 0 {
				fields = nil
				for _, name := range only {
					acc, err := findField(st, name)
					if err != nil {
						return err
					}
					fields = append(fields, acc)
				}
			}

			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			t := table.New(
				table.ColumnSpec{Header: "FIELD"},
				table.ColumnSpec{Header: "OWNER"},
				table.ColumnSpec{Header: "ADDRESS"},
				table.ColumnSpec{Header: "TYPE"},
				table.ColumnSpec{Header: "VALUE"},
			)
			for _, acc := range fields {
				value, err := acc.ReadValue(m, base)
				text := formatValue(value)
				if err != nil {
					rootOpts.debug("Read of", acc.Field.Name, "failed:", err)
					text = "error: " + err.Error()
				}
				t.AddRow(acc.Field.Name, acc.Owner, acc.Address(base).String(), acc.GoType, text)
			}
			return t.Render(cmd.OutOrStdout())
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringSliceVarP(&only, "field", "f", nil, "only read these fields")

	return cmd
}

// NewWriteCommand creates the write command
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &schemaOptions{}

	cmd := &cobra.Command{
		Use:   "write <process> <corpus> <struct> <addr> <field> <value>",
		Short: "Write one field of a struct instance",
		Long: `Compile the corpus, then write value to one field of struct at addr.
Bit fields take true or false and multi-bit fields take an integer; other bits
of the storage byte are preserved. Against --from the dump is saved back.`,
		Args:          cobra.ExactArgs(6),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.load(args[1], args[2])
			if err != nil {
				return err
			}
			base, err := parseAddress(args[3])
			if err != nil {
				return err
			}
			acc, err := findField(st, args[4])
			if err != nil {
				return err
			}

			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			if err := acc.WriteValue(m, base, strings.TrimSpace(args[5])); err != nil {
				return err
			}

			if dump, ok := m.Driver().(*process_blob.Dump); ok && rootOpts.From != "" {
				if err := dump.Save(rootOpts.From); err != nil {
					return fmt.Errorf("save dump: %w", err)
				}
			}

			value, err := acc.ReadValue(m, base)
			if err != nil {
				return err
			}
			rootOpts.log.Infoln("Wrote", st.Name+"."+acc.Field.Name, "at", acc.Address(base))
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", st.Name, acc.Field.Name, formatValue(value))
			return nil
		},
	}

	opts.bind(cmd)

	return cmd
}
