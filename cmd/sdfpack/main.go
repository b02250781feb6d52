// Command sdfpack packs one frame of an SDF scene from a scene configuration and a layout document and
// prints the layer table and both record buffers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/config"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/muesli/termenv"
)

// options are the parsed command line flags.
type options struct {
	configPath string
	layoutPath string
	width      float64
	height     float64
	format     string
	watch      bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "sdfpack:", err)
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	out := termenv.NewOutput(stdout)
	p := &printer{out: out, format: opts.format}

	provider, sc, err := build(opts)
	if err != nil {
		fmt.Fprintln(stderr, "sdfpack:", err)
		return 1
	}
	if err := renderOnce(p, sc); err != nil {
		fmt.Fprintln(stderr, "sdfpack:", err)
		return 1
	}
	if !opts.watch {
		return 0
	}

	err = provider.Watch(ctx, func(reloadErr error) {
		if reloadErr != nil {
			fmt.Fprintln(stderr, "sdfpack: reload:", reloadErr)
			return
		}
		if err := attachAll(sc, provider.Shapes()); err != nil {
			fmt.Fprintln(stderr, "sdfpack:", err)
			return
		}
		if err := renderOnce(p, sc); err != nil {
			fmt.Fprintln(stderr, "sdfpack:", err)
		}
	})
	if err != nil {
		fmt.Fprintln(stderr, "sdfpack:", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sdfpack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "scene configuration file (.toml, .yaml); defaults are used when empty")
	fs.StringVar(&opts.layoutPath, "layout", "", "layout document (.toml, .yaml)")
	fs.Float64Var(&opts.width, "width", 1280, "viewport width in pixels")
	fs.Float64Var(&opts.height, "height", 720, "viewport height in pixels")
	fs.StringVar(&opts.format, "format", formatFloat, "buffer output format: float or hex")
	fs.BoolVar(&opts.watch, "watch", false, "re-pack whenever the layout file changes")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.layoutPath == "" {
		return opts, errors.New("-layout is required")
	}
	if opts.format != formatFloat && opts.format != formatHex {
		return opts, fmt.Errorf("unknown -format %q", opts.format)
	}
	if !(common.Viewport{Width: float32(opts.width), Height: float32(opts.height)}).Valid() {
		return opts, fmt.Errorf("invalid viewport %gx%g", opts.width, opts.height)
	}
	return opts, nil
}

// build loads the configuration and layout and attaches every layout shape to a new scene.
func build(opts options) (*layout.FileProvider, scene.Scene, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, nil, err
		}
	}

	provider, err := layout.NewFileProvider(opts.layoutPath)
	if err != nil {
		return nil, nil, err
	}

	sc, err := scene.NewSceneFromConfig(cfg, provider, scene.WithViewport(float32(opts.width), float32(opts.height)))
	if err != nil {
		return nil, nil, err
	}
	if err := attachAll(sc, provider.Shapes()); err != nil {
		return nil, nil, err
	}
	return provider, sc, nil
}

// attachAll replaces the scene's shapes with the given layout shapes, in document order.
func attachAll(sc scene.Scene, shapes []layout.Shape) error {
	sc.Clear()
	for _, s := range shapes {
		t, err := element.ParseType(s.Type)
		if err != nil {
			return fmt.Errorf("shape %s: %w", s.ID, err)
		}
		if _, err := sc.Attach(s.ID, t, s.Layer); err != nil {
			return fmt.Errorf("shape %s: %w", s.ID, err)
		}
	}
	return nil
}

func renderOnce(p *printer, sc scene.Scene) error {
	frame, err := sc.Render()
	if err != nil {
		return err
	}
	p.print(sc, frame)
	return nil
}
