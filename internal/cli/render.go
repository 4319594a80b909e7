package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/obj"
)

// ErrTerminalOutput is returned when OBJ output would go to a terminal.
var ErrTerminalOutput = errors.New("refusing to write OBJ to a terminal; use -o or --force")

// RenderOptions contains all the configuration for the render command.
type RenderOptions struct {
	Path      string
	Output    string // file path; empty or "-" means Stdout
	Compile   CompileOptions
	Names     bool // emit an "o" record per mesh
	Precision int  // fixed decimals when positive; shortest round-trip otherwise
	Watch     bool
	Force     bool
	Hooks     domain.LifecycleHooks

	Stdout io.Writer
	Stderr io.Writer
}

func (o *RenderOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Render compiles the scene at opts.Path and streams it as OBJ. With
// opts.Watch it re-renders on every change until ctx is done.
func Render(ctx context.Context, opts RenderOptions, logger *slog.Logger) error {
	opts.defaults()
	if opts.Watch {
		if opts.Output == "" || opts.Output == "-" {
			return errors.New("--watch needs an output file (-o)")
		}
		printSystemMessage(opts.Stderr, "Watching '%s'.", opts.Path)
		return Watch(ctx, opts.Path, logger, func() error {
			_, err := renderOnce(ctx, opts, logger)
			if err == nil {
				printSystemMessage(opts.Stderr, "Waiting for changes...")
			}
			return err
		})
	}
	_, err := renderOnce(ctx, opts, logger)
	return err
}

func renderOnce(ctx context.Context, opts RenderOptions, logger *slog.Logger) (obj.Stats, error) {
	toStdout := opts.Output == "" || opts.Output == "-"
	if toStdout && !opts.Force && isTerminal(opts.Stdout) {
		return obj.Stats{}, ErrTerminalOutput
	}

	// 1. Compile
	src, err := LoadSource(opts.Path, opts.Compile, logger)
	if err != nil {
		return obj.Stats{}, err
	}

	// 2. Open output
	out := opts.Stdout
	var file *os.File
	if !toStdout {
		file, err = os.Create(opts.Output)
		if err != nil {
			return obj.Stats{}, fmt.Errorf("failed to create output: %w", err)
		}
		out = file
	}

	// 3. Stream
	gen := immense.New(
		immense.WithLogger(logger),
		immense.WithLifecycleHooks(opts.Hooks),
		immense.WithEncoderOptions(encoderOptions(opts)...),
	)
	stats, err := gen.Render(ctx, src.Rule, out)
	if file != nil {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}
	if err != nil {
		return stats, err
	}

	if serr := src.Err(); serr != nil {
		logger.Warn("deferred rules failed", "path", opts.Path, "err", serr)
	}
	target := "stdout"
	if !toStdout {
		target = opts.Output
	}
	printSystemMessage(opts.Stderr, "Rendered %d meshes (%d vertices, %d faces) to %s.", stats.Meshes, stats.Vertices, stats.Faces, target)
	return stats, nil
}

func encoderOptions(opts RenderOptions) []obj.Option {
	eopts := []obj.Option{
		obj.WithComment(fmt.Sprintf("immense %s\nsource: %s", strings.TrimSpace(immense.Version), filepath.Base(opts.Path))),
	}
	if opts.Precision > 0 {
		eopts = append(eopts, obj.WithPrecision(opts.Precision))
	}
	if opts.Names {
		base := strings.TrimSuffix(filepath.Base(opts.Path), filepath.Ext(opts.Path))
		eopts = append(eopts, obj.WithObjectNames(func(i int) string {
			return fmt.Sprintf("%s_%d", base, i)
		}))
	}
	return eopts
}
