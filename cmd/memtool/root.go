package main

import (
	"context"
	"fmt"
	"strconv"

	"memlayout/attach"
	"memlayout/memory"
	"memlayout/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	Verbose      bool
	From         string // saved dump directory, replaces the live process
	Guard        string
	GuardPattern string
	Parallelism  uint

	log *logger.Logger
}

func (o *RootOptions) debug(args ...any) {
	if o.Verbose {
		o.log.Debugln(args...)
	}
}

// NewRootCommand creates the memtool command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "memtool")),
	}

	cmd := &cobra.Command{
		Use:   "memtool",
		Short: "Inspect and patch the memory of a running process or a saved dump",
		Long: `memtool attaches to a process by name, discovers its base and guard, and
reads or writes memory through the validated memory layer. With --from it
runs against a dump directory written by "memtool save" instead.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.From, "from", "", "run against a saved dump directory")
	cmd.PersistentFlags().StringVar(&opts.Guard, "guard", "", "known guard address")
	cmd.PersistentFlags().StringVar(&opts.GuardPattern, "guard-pattern", "", "byte pattern inside the guard region, e.g. \"48 8b ?? 05\"")
	cmd.PersistentFlags().UintVar(&opts.Parallelism, "parallelism", 0, "regions scanned concurrently, 0 for one per CPU")

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewPathsCommand(opts))

	return cmd
}

// options turns the persistent flags into attach options
func (o *RootOptions) options() (attach.Options, error) {
	opts := attach.Options{From: o.From, Parallelism: o.Parallelism}

	if o.Guard != "" {
		guard, err := parseAddress(o.Guard)
		if err != nil {
			return opts, fmt.Errorf("--guard: %w", err)
		}
		opts.Guard = guard
	}

	if o.GuardPattern != "" {
		aob, err := process.ParseAOB(o.GuardPattern)
		if err != nil {
			return opts, fmt.Errorf("--guard-pattern: %w", err)
		}
		opts.GuardPattern = &aob
	}

	return opts, nil
}

// open attaches a session on processName. Callers close the session.
func (o *RootOptions) open(ctx context.Context, processName string) (*memory.Session, *memory.Memory, error) {
	opts, err := o.options()
	if err != nil {
		return nil, nil, err
	}
	finder, opener, err := attach.Backend(opts)
	if err != nil {
		return nil, nil, err
	}

	session := memory.NewSession(finder, opener)
	m, err := session.Init(ctx, processName)
	if err != nil {
		return nil, nil, err
	}
	return session, m, nil
}

func parseAddress(text string) (process.Address, error) {
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("address %q: %w", text, process.InvalidArgument)
	}
	return process.Address(v), nil
}
