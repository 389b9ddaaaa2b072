package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"inkwell/internal/client/api"
	"inkwell/internal/client/page"
	"inkwell/internal/client/router"
	"inkwell/internal/handler/http/requestid"
	"inkwell/internal/observability/logging"
)

// session is the client state shared by the commands of one invocation.
type session struct {
	client *api.Client
	site   *url.URL
	logger *slog.Logger
	width  int
	out    io.Writer
}

func newSession(c *cli.Command) (*session, error) {
	client, err := api.NewClient(api.Config{BaseURL: c.String("api"), Timeout: c.Duration("timeout")})
	if err != nil {
		return nil, err
	}
	site, err := siteOrigin(c.String("api"))
	if err != nil {
		return nil, err
	}

	level := "info"
	if c.Bool("debug") {
		level = "debug"
	}
	return &session{
		client: client,
		site:   site,
		logger: logging.New(os.Stderr, logging.ParseLevel(level), true),
		width:  int(c.Int("width")),
		out:    os.Stdout,
	}, nil
}

// siteOrigin derives the site origin from the API root: links are same-origin
// when they share its scheme and host.
func siteOrigin(apiURL string) (*url.URL, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

// OpenCommand navigates one or more locations in order and prints the last view.
func OpenCommand() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open client URLs, e.g. / or /search.html?q=go; 'back' and 'forward' walk the history",
		ArgsUsage: "<location> [location|back|forward ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Print every view, not only the last one",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return usageError("open: at least one location is required")
			}
			s, err := newSession(c)
			if err != nil {
				return err
			}
			r, err := page.NewRouter(s.client)
			if err != nil {
				return err
			}
			return s.open(ctx, r, c.Args().Slice(), c.Bool("all"))
		},
	}
}

func (s *session) open(ctx context.Context, r *router.Router, locations []string, all bool) error {
	var last *page.View
	for i, loc := range locations {
		v, err := s.step(ctx, r, loc)
		if v == nil {
			return err
		}
		if err != nil {
			s.logger.Debug("page load failed", slog.String("location", loc), slog.Any("error", err))
		}
		if all || i == len(locations)-1 {
			last = v
			fmt.Fprintln(s.out, Render(*v, s.width))
		}
	}
	if last != nil && last.Failed {
		return cli.Exit("", 1)
	}
	return nil
}

func (s *session) step(ctx context.Context, r *router.Router, loc string) (*page.View, error) {
	var (
		v   any
		err error
	)
	// 1画面分の API 呼び出しは同じリクエストIDを共有する
	ctx = requestid.WithRequestID(ctx, "reader-"+uuid.NewString())
	switch loc {
	case "back":
		v, err = r.Back(ctx)
	case "forward":
		v, err = r.Forward(ctx)
	default:
		target, ok := router.Intercept(s.site, loc)
		if !ok {
			return nil, usageError("%s is not on %s", loc, s.site.Host)
		}
		v, err = r.Navigate(ctx, target)
	}
	if errors.Is(err, router.ErrNoHistory) {
		return nil, usageError("%s: no history entry", loc)
	}
	view, ok := v.(page.View)
	if !ok {
		return nil, err
	}
	return &view, err
}

// SuggestCommand prints article titles starting with a prefix.
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest article titles for a search prefix",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum suggestions", Value: 5},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			prefix := strings.Join(c.Args().Slice(), " ")
			s, err := newSession(c)
			if err != nil {
				return err
			}
			titles, err := s.client.Suggestions(ctx, prefix, int(c.Int("limit")))
			if err != nil {
				return apiExit(err)
			}
			for _, t := range titles {
				fmt.Fprintln(s.out, t)
			}
			return nil
		},
	}
}

// SubscribeCommand subscribes an email address.
func SubscribeCommand() *cli.Command {
	return emailCommand("subscribe", "Subscribe an email address to new posts", "subscribed",
		func(ctx context.Context, c *api.Client, email string) error { return c.Subscribe(ctx, email) })
}

// UnsubscribeCommand unsubscribes an email address.
func UnsubscribeCommand() *cli.Command {
	return emailCommand("unsubscribe", "Unsubscribe an email address", "unsubscribed",
		func(ctx context.Context, c *api.Client, email string) error { return c.Unsubscribe(ctx, email) })
}

func emailCommand(name, usage, done string, call func(context.Context, *api.Client, string) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<email>",
		Action: func(ctx context.Context, c *cli.Command) error {
			email := c.Args().First()
			if email == "" {
				return usageError("%s: email is required", name)
			}
			s, err := newSession(c)
			if err != nil {
				return err
			}
			if err := call(ctx, s.client, email); err != nil {
				return apiExit(err)
			}
			fmt.Fprintln(s.out, successStyle.Render(done+": "+email))
			return nil
		},
	}
}

// CommentCommand submits a comment for moderation.
func CommentCommand() *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "Submit a comment on an article",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "article", Usage: "Article id", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Author name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Author email", Required: true},
			&cli.StringFlag{Name: "content", Usage: "Comment text", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			err = s.client.SubmitComment(ctx, c.Int64("article"), api.NewComment{
				Content:     c.String("content"),
				AuthorName:  c.String("name"),
				AuthorEmail: c.String("email"),
			})
			if err != nil {
				return apiExit(err)
			}
			fmt.Fprintln(s.out, successStyle.Render("comment submitted, it will appear once approved"))
			return nil
		},
	}
}

// apiExit maps validation errors to a usage exit and passes the rest through.
func apiExit(err error) error {
	var apiErr *api.Error
	if api.IsValidation(err) && errors.As(err, &apiErr) {
		return usageError("%s", apiErr.Message)
	}
	return err
}
