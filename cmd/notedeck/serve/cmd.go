package serve

import (
	"time"

	"github.com/avisser/notedeck/auth"
	authapi "github.com/avisser/notedeck/auth/api"
	"github.com/avisser/notedeck/internal/cmdflags"
	"github.com/avisser/notedeck/internal/httpserver"
	"github.com/avisser/notedeck/internal/webui"
	"github.com/avisser/notedeck/notebook"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:3000"
	notebookDir := "./notedeck-data"
	sessionTTL := 12 * time.Hour
	insecureCookie := false
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the notedeck web application",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind for incoming requests",
				Destination: &bindAddr,
				Value:       bindAddr,
			},
			cmdflags.Notebook(&notebookDir),
			cmdflags.SessionTTL(&sessionTTL),
			&cli.BoolFlag{
				Name:        "insecure-cookie",
				Usage:       "Allow the session cookie over plain http (local development only)",
				Destination: &insecureCookie,
				Value:       insecureCookie,
			},
		},
		Action: func(ctx *cli.Context) error {
			store, err := notebook.Open(ctx.Context, notebookDir)
			if err != nil {
				return err
			}
			defer store.Close()
			sessions, err := auth.InMemorySessionStore(sessionTTL)
			if err != nil {
				return err
			}
			registrar := auth.NewRegistrar(store, nil, nil)
			authenticator := auth.NewAuthenticator(store, sessions, nil, nil)
			realm := authapi.NewRealm(sessions, insecureCookie)
			handler := webui.AsHandler(store, registrar, authenticator, realm)
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
