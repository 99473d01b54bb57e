package main

import (
	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	Verbose bool
	Color   bool

	log *logger.Logger
}

func (o *RootOptions) debug(args ...any) {
	if o.Verbose {
		o.log.Debugln(args...)
	}
}

// NewRootCommand creates the layoutc command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "layoutc")),
	}

	cmd := &cobra.Command{
		Use:   "layoutc",
		Short: "Compile struct layout headers into typed Go accessors",
		Long: `layoutc reads a header corpus of struct layouts with their field offsets
and generates Go accessors that read and write those fields in a remote process.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", false, "colorize tables")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))

	return cmd
}
