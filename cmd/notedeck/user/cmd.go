package user

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/avisser/notedeck/auth"
	"github.com/avisser/notedeck/internal/cmdflags"
	"github.com/avisser/notedeck/notebook"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var store *notebook.Store
	notebookDir := "./notedeck-data"
	return &cli.Command{
		Name:  "user",
		Usage: "Manage accounts directly against the notebook",
		Flags: []cli.Flag{
			cmdflags.Notebook(&notebookDir),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			store, err = notebook.Open(ctx.Context, notebookDir)
			return err
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&store),
			removeCmd(&store),
		},
	}
}

func registerCmd(store **notebook.Store) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			registrar := auth.NewRegistrar(*store, nil, nil)
			_, err := registrar.Register(ctx.Context, username, password)
			return err
		},
	}
}

func removeCmd(store **notebook.Store) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "remove",
		Usage: "Remove a user and every note they own",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "Name of the user to remove",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			found, err := (*store).FindUserByUsername(ctx.Context, auth.NormalizeUsername(username))
			if err != nil {
				return err
			}
			return (*store).DeleteUser(ctx.Context, found.ID)
		},
	}
}
