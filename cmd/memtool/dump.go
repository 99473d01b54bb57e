package main

import (
	"fmt"
	"strconv"

	"memlayout/hexdump"
	"memlayout/memory"
	"memlayout/process"

	"github.com/spf13/cobra"
)

// maxDumpSize bounds a single dump request
const maxDumpSize = 1 << 20

// NewDumpCommand creates the dump command
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		lines      int
		noPointers bool
	)

	cmd := &cobra.Command{
		Use:   "dump <process> <addr> <size>",
		Short: "Hex dump remote memory",
		Long: `Read size bytes at addr through the validated memory layer and print a hex
dump. Guarded addresses are remapped before the read. Aligned words that point
into a mapped region are listed at the end of each line.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			size, err := strconv.ParseUint(args[2], 0, 32)
			if err != nil || size == 0 || size > maxDumpSize {
				return fmt.Errorf("size %q must be between 1 and %d: %w", args[2], maxDumpSize, process.InvalidArgument)
			}

			session, m, err := rootOpts.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			data, err := memory.ReadArray[byte](m, addr, int(size))
			if err != nil {
				return err
			}
			rootOpts.debug("Read", len(data), "bytes at", addr, "from", m.Unguard(addr))

			options := hexdump.DefaultOptions()
			options.StartAddress = addr
			options.MaxLines = lines
			options.Guard = m.Guard()
			if mapper, ok := m.Driver().(process.Mapper); ok && !noPointers {
				mm, err := mapper.MemoryMap()
				if err != nil {
					rootOpts.log.Warn("Failed to read memory map: ", err)
				}
				options.ShowPointers = err == nil
				options.MemoryMap = mm
			}

			hexdump.DumpToWriter(cmd.OutOrStdout(), data, options)
			return nil
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 0, "maximum number of lines, 0 for all")
	cmd.Flags().BoolVar(&noPointers, "no-pointers", false, "do not annotate pointers")

	return cmd
}
