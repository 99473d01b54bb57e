package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"memlayout/compiler"

	"github.com/spf13/cobra"
)

// DefaultConfig is read by generate when no --config is given
const DefaultConfig = "layoutc.yaml"

type generateOptions struct {
	config  string
	input   string
	output  string
	pkg     string
	stdout  bool
	check   bool
	imports []string
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate accessors from a corpus",
		Long: `Generate Go accessors for every struct in a corpus.

Settings come from layoutc.yaml (or --config). --input, --output and
--package override the file and are enough on their own when no config exists.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", DefaultConfig, "config file")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "corpus path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "generated Go file")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package clause of the generated file")
	cmd.Flags().StringSliceVar(&opts.imports, "import", nil, "extra import path for extern types")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the generated source to stdout")
	cmd.Flags().BoolVar(&opts.check, "check", false, "fail when the output file is not up to date")

	return cmd
}

func loadGenerateConfig(opts *generateOptions, cmd *cobra.Command) (*compiler.Config, error) {
	cfg := &compiler.Config{}

	_, statErr := os.Stat(opts.config)
	if statErr == nil || cmd.Flags().Changed("config") {
		loaded, err := compiler.LoadConfig(opts.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.input != "" {
		cfg.Input = opts.input
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.pkg != "" {
		cfg.Package = opts.pkg
	}
	cfg.Imports = append(cfg.Imports, opts.imports...)

	if opts.stdout && cfg.Output == "" {
		cfg.Output = "-"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(rootOpts *RootOptions, opts *generateOptions, cmd *cobra.Command) error {
	cfg, err := loadGenerateConfig(opts, cmd)
	if err != nil {
		return err
	}
	rootOpts.debug("Compiling", cfg.Input)

	schema, src, err := compiler.Run(cfg)
	if err != nil {
		return err
	}

	for _, d := range schema.Diagnostics {
		rootOpts.log.Warn("skipped ", d.String())
	}

	switch {
	case opts.stdout:
		_, err := cmd.OutOrStdout().Write(src)
		return err

	case opts.check:
		current, err := os.ReadFile(cfg.Output)
		if err != nil {
			return fmt.Errorf("check %s: %w", cfg.Output, err)
		}
		if !bytes.Equal(current, src) {
			return fmt.Errorf("%s is out of date, run layoutc generate", cfg.Output)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", cfg.Output)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.Output, src, 0644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}

	rootOpts.log.Infoln("Generated", len(schema.Structs), "structs into", cfg.Output)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d structs, %d diagnostics)\n", cfg.Output, len(schema.Structs), len(schema.Diagnostics))
	return nil
}
