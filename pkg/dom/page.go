// Package dom is an in-memory page host for linkcopy. It keeps a parsed HTML
// document, a text selection, copy-event listeners and a clipboard, and
// dispatches copy events the way a browser does for document.execCommand.
package dom

import (
	"errors"
	"io"
	"strings"

	"linkcopy/pkg/linkcopy"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrNoBody         = errors.New("document has no body")
	ErrNotAttached    = errors.New("element is not attached to the document")
	ErrForeignElement = errors.New("element was not created by this document")
)

// Sink receives every payload the page commits to its clipboard. A sink error
// makes the copy command report failure.
type Sink func(linkcopy.Payload) error

// Page is a loaded document plus the browser state linkcopy touches.
// It is not safe for concurrent use.
type Page struct {
	doc   *goquery.Document
	title string
	url   string

	ranges    []*html.Node
	listeners []*listener
	nextID    int

	contents     linkcopy.Payload
	copyDisabled bool
	sink         Sink
	sinkErr      error
	dispatched   int
}

type Option func(*Page)

// WithTitle overrides the document title.
func WithTitle(title string) Option {
	return func(p *Page) {
		p.title = title
	}
}

// WithCopyDisabled makes the copy command refuse to run, as browsers do
// without a user gesture or clipboard permission.
func WithCopyDisabled() Option {
	return func(p *Page) {
		p.copyDisabled = true
	}
}

// WithSink forwards committed clipboard contents to s.
func WithSink(s Sink) Option {
	return func(p *Page) {
		p.sink = s
	}
}

// Parse reads an HTML document served from url.
func Parse(r io.Reader, url string, opts ...Option) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	p := &Page{
		doc:   doc,
		url:   url,
		title: collapseWhitespace(documentTitle(doc)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// documentTitle is the text of the first title element in the HTML
// namespace; SVG and MathML titles are skipped.
func documentTitle(doc *goquery.Document) string {
	return doc.Find("title").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Nodes[0].Namespace == ""
	}).First().Text()
}

// New returns an empty document with the given title and address.
func New(title, url string, opts ...Option) *Page {
	root := &html.Node{Type: html.DocumentNode}
	htmlNode := element(atom.Html)
	htmlNode.AppendChild(element(atom.Head))
	htmlNode.AppendChild(element(atom.Body))
	root.AppendChild(htmlNode)

	p := &Page{
		doc:   goquery.NewDocumentFromNode(root),
		url:   url,
		title: title,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

// collapseWhitespace mirrors document.title: strip and collapse ASCII whitespace.
func collapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return true
		}
		return false
	}), " ")
}

func (p *Page) Title() string { return p.title }
func (p *Page) URL() string   { return p.url }

func (p *Page) Document() linkcopy.Document   { return (*tree)(p) }
func (p *Page) Selection() linkcopy.Selection { return (*selection)(p) }
func (p *Page) Clipboard() linkcopy.Clipboard { return (*clipboard)(p) }

// HTML serializes the whole document.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// NodeCount returns the number of nodes in the document tree.
func (p *Page) NodeCount() int {
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		count++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range p.doc.Nodes {
		walk(n)
	}
	return count
}

// ClipboardContents returns what the last successful copy committed.
func (p *Page) ClipboardContents() linkcopy.Payload {
	return p.contents
}

// SinkErr returns the error from the last sink call, if any.
func (p *Page) SinkErr() error {
	return p.sinkErr
}

// CopyCount returns how many copy events were dispatched.
func (p *Page) CopyCount() int {
	return p.dispatched
}

// SelectedText returns the text content of the current selection.
func (p *Page) SelectedText() string {
	var b strings.Builder
	for _, n := range p.ranges {
		b.WriteString(goquery.NewDocumentFromNode(n).Text())
	}
	return b.String()
}
