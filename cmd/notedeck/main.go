package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/avisser/notedeck/cmd/notedeck/serve"
	"github.com/avisser/notedeck/cmd/notedeck/user"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "notedeck",
		Usage: "Multi-user note taking, rendered on the server",
		Commands: []*cli.Command{
			serve.Cmd(),
			user.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
