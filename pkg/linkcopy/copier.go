// Package linkcopy copies a page's title and URL to the clipboard as a rich
// HTML link and a Markdown link at the same time.
//
// The page is reached only through a PageContext, so the same code runs in a
// browser (see pkg/browser) and against an in-memory document (see pkg/dom).
package linkcopy

import (
	"errors"
	"fmt"

	"linkcopy/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrCopyNotPerformed is returned when the host refused the copy command or
// never dispatched the copy event. The clipboard is left as it was.
var ErrCopyNotPerformed = errors.New("copy command was not performed by the host")

// Copier places a link to the current page on the clipboard.
type Copier struct {
	log zerolog.Logger
}

// Option configures a Copier.
type Option func(*Copier)

// WithLogger sets the logger used for step tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Copier) {
		c.log = log
	}
}

// New returns a Copier. Without options it logs through pkg/logger.
func New(opts ...Option) *Copier {
	c := &Copier{log: logger.GetLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy runs one invocation against pc: it attaches a temporary anchor for the
// page, selects it, arms a one-shot copy handler and triggers the host copy
// command. The anchor is detached and the handler deregistered on every exit
// path, panics included.
//
// The returned Payload is what the handler writes. It is returned even when
// the error is ErrCopyNotPerformed.
func (c *Copier) Copy(pc PageContext) (Payload, error) {
	log := c.log.With().Str("invocation", uuid.New().String()).Logger()

	title, url := pc.Title(), pc.URL()
	markdown := MarkdownLink(title, url)

	doc := pc.Document()
	anchor := doc.CreateAnchor(url, title)
	if err := doc.Append(anchor); err != nil {
		return Payload{}, fmt.Errorf("attach link element: %w", err)
	}
	defer func() {
		if err := doc.Remove(anchor); err != nil {
			log.Warn().Err(err).Msg("failed to detach link element")
		}
	}()

	payload := Payload{HTML: anchor.OuterHTML(), Plain: markdown}
	log.Debug().Str("url", url).Str("markdown", markdown).Msg("link element attached")

	if err := pc.Selection().SelectContents(anchor); err != nil {
		return payload, fmt.Errorf("select link element: %w", err)
	}

	clip := pc.Clipboard()
	fired := false
	remove := clip.OnceCopy(func(ev CopyEvent) {
		if fired {
			return
		}
		fired = true
		payload.WriteTo(ev.ClipboardData())
		ev.PreventDefault()
	})
	defer remove()

	ok := clip.ExecCopy()
	if !ok || !fired {
		log.Debug().Bool("executed", ok).Bool("handled", fired).Msg("copy not performed")
		return payload, ErrCopyNotPerformed
	}

	log.Debug().Msg("link copied")
	return payload, nil
}

// Copy runs a single invocation with a default Copier.
func Copy(pc PageContext) (Payload, error) {
	return New().Copy(pc)
}
