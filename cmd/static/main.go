package main

import (
	"os"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/handlers/static"
	"github.com/indigo-web/pollbin/internal/cli"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(cli.Main("static", build))
}

func build(cfg *config.Config, responder *dispatcher.Responder, log zerolog.Logger) (dispatcher.Handlers, error) {
	files, err := static.New(responder, cfg.HTTP.BaseDirectory)
	if err != nil {
		return nil, err
	}

	log.Info().Str("root", files.Root()).Msg("serving files")
	return files.Handlers(), nil
}
