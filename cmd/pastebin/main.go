package main

import (
	"os"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/handlers/pastebin"
	"github.com/indigo-web/pollbin/internal/cli"
	"github.com/indigo-web/pollbin/storage/backend"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(cli.Main("pastebin", build))
}

func build(cfg *config.Config, responder *dispatcher.Responder, log zerolog.Logger) (dispatcher.Handlers, error) {
	store, err := backend.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", cfg.Storage.Backend).Msg("storage is ready")
	return pastebin.New(responder, store).Handlers(), nil
}
