// Package page resolves a command-line source (URL, file, stdin or nothing)
// into an in-memory page for the link copier.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"linkcopy/pkg/dom"
	"linkcopy/pkg/logger"
)

// Stdin is the source name that reads the page from standard input.
const Stdin = "-"

// maxPageSize bounds how much of a response or file is parsed.
const maxPageSize = 10 << 20

// Kind classifies a source string.
type Kind int

const (
	KindBlank Kind = iota
	KindStdin
	KindHTTP
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindStdin:
		return "stdin"
	case KindHTTP:
		return "http"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Classify reports how source will be loaded.
func Classify(source string) Kind {
	switch {
	case source == "":
		return KindBlank
	case source == Stdin:
		return KindStdin
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return KindHTTP
	default:
		return KindFile
	}
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Loader builds pages from sources.
type Loader struct {
	Client    *http.Client
	UserAgent string
	Stdin     io.Reader
}

// Overrides replaces values read from the source. Empty fields are ignored.
type Overrides struct {
	Title string
	URL   string
}

// NewLoader returns a Loader using http.DefaultClient and os.Stdin.
func NewLoader(userAgent string) *Loader {
	return &Loader{Client: http.DefaultClient, UserAgent: userAgent, Stdin: os.Stdin}
}

// Load reads source into a page. A blank source needs both override fields.
func (l *Loader) Load(ctx context.Context, source string, ov Overrides, opts ...dom.Option) (*dom.Page, error) {
	kind := Classify(source)
	logger.Debug().Str("source", source).Stringer("kind", kind).Msg("loading page")

	if ov.Title != "" {
		opts = append(opts, dom.WithTitle(ov.Title))
	}

	switch kind {
	case KindBlank:
		if ov.URL == "" {
			return nil, fmt.Errorf("no source given and no URL set")
		}
		return dom.New(ov.Title, ov.URL, opts...), nil

	case KindStdin:
		pageURL := ov.URL
		if pageURL == "" {
			pageURL = "about:blank"
		}
		return dom.Parse(io.LimitReader(l.Stdin, maxPageSize), pageURL, opts...)

	case KindHTTP:
		return l.fetch(ctx, source, ov, opts)

	default:
		return l.readFile(source, ov, opts)
	}
}

func (l *Loader) fetch(ctx context.Context, source string, ov Overrides, opts []dom.Option) (*dom.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: source, StatusCode: resp.StatusCode}
	}

	// Redirects move the page; the copied link is where it ended up.
	pageURL := resp.Request.URL.String()
	if ov.URL != "" {
		pageURL = ov.URL
	}
	logger.Debug().Str("url", pageURL).Int("status", resp.StatusCode).Msg("page fetched")

	return dom.Parse(io.LimitReader(resp.Body, maxPageSize), pageURL, opts...)
}

func (l *Loader) readFile(path string, ov Overrides, opts []dom.Option) (*dom.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pageURL := ov.URL
	if pageURL == "" {
		if pageURL, err = fileURL(path); err != nil {
			return nil, err
		}
	}
	return dom.Parse(io.LimitReader(f, maxPageSize), pageURL, opts...)
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
