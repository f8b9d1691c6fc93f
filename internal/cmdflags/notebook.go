package cmdflags

import (
	"time"

	"github.com/urfave/cli/v2"
)

func Notebook(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "notebook",
		Aliases:     []string{"n", "data"},
		Usage:       "Directory that holds the notebook database",
		Destination: out,
		Value:       *out,
	}
}

func SessionTTL(out *time.Duration) cli.Flag {
	return &cli.DurationFlag{
		Name:        "session-ttl",
		Usage:       "How long a signed-in session stays valid without a new login",
		Destination: out,
		Value:       *out,
	}
}
