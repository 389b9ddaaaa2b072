// Command reader browses the blog from a terminal. It navigates client URLs
// through the page router and prints the resulting views.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "reader",
		Usage: "Terminal client for the Inkwell blog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Blog API root URL",
				Value:   "http://localhost:8080/api",
				Sources: cli.EnvVars("BLOG_API_URL"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Per-request timeout",
				Value:   10 * time.Second,
				Sources: cli.EnvVars("BLOG_API_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Output width in columns",
				Value: 80,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			OpenCommand(),
			SuggestCommand(),
			SubscribeCommand(),
			UnsubscribeCommand(),
			CommentCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func usageError(format string, args ...any) error {
	return cli.Exit(fmt.Sprintf(format, args...), 2)
}
