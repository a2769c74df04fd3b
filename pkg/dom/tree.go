package dom

import (
	"linkcopy/pkg/linkcopy"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element wraps a node owned by a Page.
type Element struct {
	node *html.Node
}

// OuterHTML serializes the element and its children.
func (e *Element) OuterHTML() string {
	out, err := goquery.OuterHtml(goquery.NewDocumentFromNode(e.node).Selection)
	if err != nil {
		return ""
	}
	return out
}

// Attached reports whether the element currently has a parent.
func (e *Element) Attached() bool {
	return e.node.Parent != nil
}

type tree Page

func (t *tree) CreateAnchor(href, text string) linkcopy.Element {
	n := element(atom.A, html.Attribute{Key: "href", Val: href})
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return &Element{node: n}
}

func (t *tree) Append(el linkcopy.Element) error {
	e, ok := el.(*Element)
	if !ok {
		return ErrForeignElement
	}
	body := t.doc.Find("body").First()
	if body.Length() == 0 {
		return ErrNoBody
	}
	body.AppendNodes(e.node)
	return nil
}

func (t *tree) Remove(el linkcopy.Element) error {
	e, ok := el.(*Element)
	if !ok {
		return ErrForeignElement
	}
	found := t.doc.FindNodes(e.node)
	if found.Length() == 0 {
		return ErrNotAttached
	}
	(*selection)(t).collapseInto(e.node)
	found.Remove()
	return nil
}
