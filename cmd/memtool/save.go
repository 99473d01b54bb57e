package main

import (
	"fmt"
	"strconv"

	"memlayout/attach"
	"memlayout/process"

	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <pid> <dir>",
		Short: "Save the readable memory of a live process as a dump",
		Long: `Attach to pid and write its metadata, memory map and readable regions to dir.
The result is read back with --from.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil || pid <= 0 {
				return fmt.Errorf("pid %q: %w", args[0], process.InvalidArgument)
			}
			if rootOpts.From != "" {
				return fmt.Errorf("save reads a live process and cannot be combined with --from: %w", process.InvalidArgument)
			}

			if err := attach.Save(process.ProcessID(pid), args[1]); err != nil {
				return err
			}
			rootOpts.log.Infoln("Saved process", pid, "to", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d to %s\n", pid, args[1])
			return nil
		},
	}

	return cmd
}
