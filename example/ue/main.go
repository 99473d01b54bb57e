// Command ue follows the actors of a running game and prints them once per frame.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"memlayout/attach"
	"memlayout/memory"
	"memlayout/names"
	"memlayout/process"
	"memlayout/table"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
)

type options struct {
	process  string
	from     string
	world    string
	names    string
	guard    string
	interval time.Duration
	frames   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "ue",
		Short:         "Print the actors of the persistent level every frame",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.process, "process", "Game-Win64-Shipping.exe", "process name")
	cmd.Flags().StringVar(&opts.from, "from", "", "run against a saved dump directory")
	cmd.Flags().StringVar(&opts.world, "world", "0x8E4A3B8", "offset of the world pointer from the process base")
	cmd.Flags().StringVar(&opts.names, "names", "0x8C1F500", "offset of the name pool from the process base")
	cmd.Flags().StringVar(&opts.guard, "guard", "", "known guard address")
	cmd.Flags().DurationVar(&opts.interval, "interval", 100*time.Millisecond, "time between frames")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "stop after this many frames, 0 to run until interrupted")

	return cmd
}

func parseHex(flag, text string) (uint64, error) {
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("--%s %q: %w", flag, text, process.InvalidArgument)
	}
	return v, nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "ue"))

	worldOffset, err := parseHex("world", opts.world)
	if err != nil {
		return err
	}
	namesOffset, err := parseHex("names", opts.names)
	if err != nil {
		return err
	}
	attachOpts := attach.Options{From: opts.from}
	if opts.guard != "" {
		guard, err := parseHex("guard", opts.guard)
		if err != nil {
			return err
		}
		attachOpts.Guard = process.Address(guard)
	}

	finder, opener, err := attach.Backend(attachOpts)
	if err != nil {
		return err
	}
	session := memory.NewSession(finder, opener)
	defer session.Close()

	m, err := session.Init(ctx, opts.process)
	if err != nil {
		return fmt.Errorf("attach %s: %w", opts.process, err)
	}

	// the pool lives at a fixed offset from the base, known only after Init
	identity := names.NewClassIdentity(names.NewPool(m.Base() + memory.Address(namesOffset)))
	m = memory.New(m.Driver(), m.Guard(), m.Base(), memory.WithIdentity(identity))

	tracker := NewTracker(worldOffset, identity)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frame := 0
	err = tracker.Run(ctx, m, opts.interval, func(entities []Entity) {
		frame++
		if err := render(out, frame, entities); err != nil {
			log.Warn("Failed to print frame: ", err)
		}
		if opts.frames > 0 && frame >= opts.frames {
			cancel()
		}
	})
	if opts.frames > 0 && frame >= opts.frames {
		return nil
	}
	return err
}

func render(w io.Writer, frame int, entities []Entity) error {
	t := table.New(
		table.ColumnSpec{Header: "ACTOR"},
		table.ColumnSpec{Header: "NAME"},
		table.ColumnSpec{Header: "CLASS"},
		table.ColumnSpec{Header: "LOCATION"},
		table.ColumnSpec{Header: "HEALTH", AlignRight: true},
		table.ColumnSpec{Header: "HIDDEN"},
	)
	for _, e := range entities {
		health := ""
		if e.Pawn {
			health = strconv.FormatFloat(float64(e.Health), 'f', 1, 32)
		}
		hidden := ""
		if e.Hidden {
			hidden = "yes"
		}
		loc := fmt.Sprintf("%.1f %.1f %.1f", e.Location.X, e.Location.Y, e.Location.Z)
		t.AddRow(e.Actor.String(), e.Name, e.Class, loc, health, hidden)
	}

	if _, err := fmt.Fprintf(w, "frame %d: %d actors\n", frame, t.Len()); err != nil {
		return err
	}
	return t.Render(w)
}
