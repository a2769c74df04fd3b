package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"linkcopy/pkg/config"
	"linkcopy/pkg/dom"
	"linkcopy/pkg/errors"
	"linkcopy/pkg/page"
	"linkcopy/pkg/progress"
)

// pageFlags are the source overrides shared by copy and show.
type pageFlags struct {
	title string
	url   string
}

func (f pageFlags) validate(args []string) error {
	if len(args) == 0 && f.url == "" {
		err := errors.ValidationError(errors.ErrMsgInvalidInput + ": no page given")
		err.Suggestion = "Pass a URL, an HTML file or - for stdin, or set --url (and --title)."
		return err
	}
	return nil
}

func sourceArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// userAgent is the configured user agent, or linkcopy/<version> when none was set.
func userAgent() string {
	if cfg.Fetch.UserAgent == "" || cfg.Fetch.UserAgent == config.DefaultUserAgent {
		return fmt.Sprintf("%s/%s", config.DefaultUserAgent, version())
	}
	return cfg.Fetch.UserAgent
}

// loadPage resolves source into an in-memory page, mapping failures to exit codes.
func loadPage(ctx context.Context, source string, f pageFlags, opts ...dom.Option) (*dom.Page, error) {
	loader := page.NewLoader(userAgent())

	var p *dom.Page
	load := func() (err error) {
		p, err = loader.Load(ctx, source, page.Overrides{Title: f.title, URL: f.url}, opts...)
		return err
	}

	var err error
	if page.Classify(source) == page.KindHTTP {
		err = progress.While(os.Stderr, "Fetching "+source, load)
	} else {
		err = load()
	}
	if err == nil {
		return p, nil
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.TimeoutError("loading " + source)
	case stderrors.Is(err, context.Canceled):
		return nil, errors.CancelledError("loading " + source)
	case stderrors.Is(err, os.ErrNotExist):
		return nil, errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgPageLoadFailed, err)
	default:
		return nil, errors.FetchError(source, err)
	}
}
