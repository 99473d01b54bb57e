package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	cmd := NewRootCommand()

	// colored tables by default on a terminal, --color=false still wins
	if fd := os.Stdout.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		_ = cmd.PersistentFlags().Set("color", "true")
		cmd.SetOut(colorable.NewColorableStdout())
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
