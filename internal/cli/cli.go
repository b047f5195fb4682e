// Package cli holds the startup sequence shared by the binaries: flags, configuration,
// logging, signals and the serving itself.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/pollbin"
	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/internal/address"
	"github.com/indigo-web/pollbin/internal/logging"
	"github.com/rs/zerolog"
)

// Build returns the handlers of the application.
type Build func(cfg *config.Config, responder *dispatcher.Responder, log zerolog.Logger) (dispatcher.Handlers, error)

// Setup parses the arguments and assembles the application, without binding the listener yet.
func Setup(name string, args []string, stderr io.Writer, build Build) (*pollbin.App, zerolog.Logger, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "config.json", "path to the configuration file (json, yaml or toml)")
	addr := flags.String("addr", "", "host or host:port to listen on, overrides the configuration")
	port := flags.Uint("port", 0, "port to listen on, overrides both the configuration and -addr")

	if err := flags.Parse(args); err != nil {
		return nil, zerolog.Nop(), err
	}

	cfg, cfgErr := config.Load(*configPath)
	if err := override(&cfg.NET, flags, *addr, *port); err != nil {
		return nil, zerolog.Nop(), err
	}

	log, logErr := logging.New(cfg.Log, stderr)
	log = log.With().Str("app", name).Logger()
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Str("path", *configPath).Msg("using the default configuration")
	}
	if logErr != nil {
		log.Warn().Err(logErr).Msg("using the info log level")
	}

	errorPage, err := dispatcher.LoadErrorPage(cfg.HTTP.ErrorPage)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("using the built-in error page")
		}

		errorPage = dispatcher.DefaultErrorPage()
	}

	responder := dispatcher.NewResponder(cfg.HTTP.Version, errorPage)
	handlers, err := build(cfg, responder, log)
	if err != nil {
		return nil, log, fmt.Errorf("%s: %w", name, err)
	}

	return pollbin.New(cfg, dispatcher.New(responder, handlers), log), log, nil
}

// override applies the explicitly set -addr and -port flags.
func override(cfg *config.NET, flags *flag.FlagSet, addr string, port uint) error {
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if set["addr"] {
		host, addrPort, hasPort, err := address.Parse(addr)
		if err != nil {
			return err
		}

		cfg.Address = host
		if hasPort {
			cfg.Port = addrPort
		}
	}

	if set["port"] {
		if port > math.MaxUint16 {
			return fmt.Errorf("port out of range: %d", port)
		}

		cfg.Port = uint16(port)
	}

	return nil
}

// Main runs the application until SIGINT or SIGTERM and returns the exit code.
func Main(name string, build Build) int {
	app, log, err := Setup(name, os.Args[1:], os.Stderr, build)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		// the logger isn't configured yet, if flags were wrong
		fmt.Fprintln(os.Stderr, err)
		log.Error().Err(err).Msg("failed to start")
		return 2
	}

	if err = app.Listen(); err != nil {
		log.Error().Err(err).Msg("failed to listen")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served, watched := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(watched)

		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			if err := app.Stop(); err != nil {
				log.Error().Err(err).Msg("failed to stop")
			}
		case <-served:
		}
	}()

	serveErr := app.Serve()
	close(served)
	// Stop must not race with Close, as the latter releases the descriptors
	<-watched

	if err = app.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to release resources")
	}

	if serveErr != nil {
		return 1
	}

	log.Info().Msg("stopped")
	return 0
}
