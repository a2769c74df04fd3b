package dom

import (
	"strings"

	"linkcopy/pkg/linkcopy"

	"github.com/PuerkitoBio/goquery"
)

type listener struct {
	id      int
	once    bool
	removed bool
	fn      func(linkcopy.CopyEvent)
}

type dataTransfer map[string]string

func (d dataTransfer) SetData(format, data string) {
	d[format] = data
}

type copyEvent struct {
	data      dataTransfer
	prevented bool
}

func (e *copyEvent) ClipboardData() linkcopy.ClipboardData { return e.data }
func (e *copyEvent) PreventDefault()                       { e.prevented = true }

type clipboard Page

// AddCopyListener registers a persistent copy listener, like a page script
// calling addEventListener without {once: true}.
func (p *Page) AddCopyListener(fn func(linkcopy.CopyEvent)) (remove func()) {
	return (*clipboard)(p).add(fn, false)
}

func (c *clipboard) OnceCopy(handler func(linkcopy.CopyEvent)) (remove func()) {
	return c.add(handler, true)
}

func (c *clipboard) add(fn func(linkcopy.CopyEvent), once bool) func() {
	c.nextID++
	l := &listener{id: c.nextID, once: once, fn: fn}
	c.listeners = append(c.listeners, l)
	return func() { c.remove(l) }
}

func (c *clipboard) remove(l *listener) {
	if l.removed {
		return
	}
	l.removed = true
	for i, cur := range c.listeners {
		if cur == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// ExecCopy dispatches a copy event to the registered listeners in order and
// then commits either the event data (default prevented) or the current
// selection to the clipboard. Nothing is committed before dispatch ends.
func (c *clipboard) ExecCopy() bool {
	if c.copyDisabled {
		return false
	}

	ev := &copyEvent{data: dataTransfer{}}
	c.dispatched++
	for _, l := range append([]*listener(nil), c.listeners...) {
		if l.removed {
			continue
		}
		if l.once {
			c.remove(l)
		}
		l.fn(ev)
	}

	var committed linkcopy.Payload
	if ev.prevented {
		committed = linkcopy.Payload{
			HTML:  ev.data[linkcopy.FormatHTML],
			Plain: ev.data[linkcopy.FormatPlain],
		}
	} else {
		committed = c.selectionPayload()
	}

	c.sinkErr = nil
	if c.sink != nil {
		if err := c.sink(committed); err != nil {
			c.sinkErr = err
			return false
		}
	}
	c.contents = committed
	return true
}

func (c *clipboard) selectionPayload() linkcopy.Payload {
	var markup, text strings.Builder
	for _, n := range c.ranges {
		sel := goquery.NewDocumentFromNode(n).Selection
		if out, err := goquery.OuterHtml(sel); err == nil {
			markup.WriteString(out)
		}
		text.WriteString(sel.Text())
	}
	return linkcopy.Payload{HTML: markup.String(), Plain: text.String()}
}
