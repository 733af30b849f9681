package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	prerender "github.com/alnah/go-prerender"
	"github.com/alnah/go-prerender/internal/config"
	"github.com/alnah/go-prerender/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrNoSource       = errors.New("no source specified")
	ErrInvalidTimeout = errors.New("timeout must be a positive number of seconds")
)

// Exporter is the interface for the export service.
type Exporter interface {
	Export(ctx context.Context, input prerender.Input) (*prerender.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Exporter = (*prerender.Service)(nil)

// serviceFactory builds the export service from resolved options.
// Injected so tests can substitute a fake.
type serviceFactory func(opts ...prerender.Option) Exporter

// run parses arguments, resolves configuration, and drives one export.
func run(args []string, stdout, stderr io.Writer, newService serviceFactory) error {
	flags, positional, err := parseFlags(args[1:])
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Fprintf(stdout, "prerender %s\n", Version)
		return nil
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return errors.Wrap(err, "loading config")
		}
	}
	mergeFlags(flags, cfg)

	if len(positional) == 0 {
		printUsage(stderr)
		return ErrNoSource
	}
	source := positional[0]
	destination := ""
	if len(positional) > 1 {
		destination = positional[1]
	}

	if cfg.Render.TimeoutSeconds <= 0 {
		return errors.Wrapf(ErrInvalidTimeout, "got %d", cfg.Render.TimeoutSeconds)
	}

	logger := logging.NewLogger(flags.verbose)
	defer func() { _ = logger.Sync() }()

	opts := []prerender.Option{
		prerender.WithTimeout(time.Duration(cfg.Render.TimeoutSeconds) * time.Second),
		prerender.WithSink(newTerminalSink(stderr, flags.verbose)),
		prerender.WithLogger(logger),
	}
	if cfg.Render.NoSandbox {
		opts = append(opts, prerender.WithoutSandbox())
	}
	if cfg.Render.Devtools {
		opts = append(opts, prerender.WithDevtools())
	}
	if cfg.Render.LocalLogic {
		opts = append(opts, prerender.WithLocalRenderLogic(cfg.Render.RenderScript))
	}

	svc := newService(opts...)
	defer func() { _ = svc.Close() }()

	input := prerender.Input{
		Source:         source,
		Destination:    destination,
		UseLocalServer: cfg.Server.Enabled,
		Port:           cfg.Server.Port,
		HaltOnError:    cfg.Policy.HaltOnError,
		HaltOnWarning:  cfg.Policy.HaltOnWarning,
	}

	if _, err := svc.Export(context.Background(), input); err != nil {
		return err
	}

	if destination != "" && destination != prerender.DestinationStdout {
		fmt.Fprintf(stdout, "Created %s\n", destination)
	}
	return nil
}

// mergeFlags folds explicitly-set CLI flags into cfg (CLI wins). Flag
// defaults fill config values left at their zero value.
func mergeFlags(f *cliFlags, cfg *config.Config) {
	if f.changed("timeout") || cfg.Render.TimeoutSeconds == 0 {
		cfg.Render.TimeoutSeconds = f.timeout
	}
	if f.changed("local-render-logic") {
		cfg.Render.LocalLogic = f.localLogic
	}
	if f.changed("render-script") {
		cfg.Render.RenderScript = f.renderScript
	}
	if f.changed("no-sandbox") {
		cfg.Render.NoSandbox = f.noSandbox
	}
	if f.changed("devtools") {
		cfg.Render.Devtools = f.devtools
	}
	if f.changed("serve") {
		cfg.Server.Enabled = f.serve
	}
	if f.changed("port") || cfg.Server.Port == 0 {
		cfg.Server.Port = f.port
	}
	if f.changed("halt-on-error") {
		cfg.Policy.HaltOnError = f.haltOnError
	}
	if f.changed("halt-on-warning") {
		cfg.Policy.HaltOnWarning = f.haltOnWarning
	}
}
