//go:build js && wasm

// Package browser implements linkcopy.PageContext over the live DOM of the
// page the WebAssembly module runs in.
package browser

import (
	"errors"
	"syscall/js"

	"linkcopy/pkg/linkcopy"
)

var (
	ErrNoBody         = errors.New("document has no body")
	ErrNoSelection    = errors.New("window.getSelection is unavailable")
	ErrNotAttached    = errors.New("element is not attached to the document")
	ErrForeignElement = errors.New("element was not created by this page")
)

// Page is the current browser document.
type Page struct {
	window   js.Value
	document js.Value
}

// Current returns the page this module is running in.
func Current() *Page {
	window := js.Global()
	return &Page{window: window, document: window.Get("document")}
}

func (p *Page) Title() string { return p.document.Get("title").String() }
func (p *Page) URL() string   { return p.window.Get("location").Get("href").String() }

func (p *Page) Document() linkcopy.Document   { return (*tree)(p) }
func (p *Page) Selection() linkcopy.Selection { return (*selection)(p) }
func (p *Page) Clipboard() linkcopy.Clipboard { return (*clipboard)(p) }

// catch converts a JavaScript exception thrown during fn into an error.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	fn()
	return nil
}

type element struct {
	v js.Value
}

func (e *element) OuterHTML() string {
	return e.v.Get("outerHTML").String()
}

func unwrap(el linkcopy.Element) (js.Value, error) {
	e, ok := el.(*element)
	if !ok {
		return js.Undefined(), ErrForeignElement
	}
	return e.v, nil
}

type tree Page

func (t *tree) CreateAnchor(href, text string) linkcopy.Element {
	a := t.document.Call("createElement", "a")
	a.Call("setAttribute", "href", href)
	a.Set("innerText", text)
	return &element{v: a}
}

func (t *tree) Append(el linkcopy.Element) error {
	v, err := unwrap(el)
	if err != nil {
		return err
	}
	body := t.document.Get("body")
	if body.IsNull() || body.IsUndefined() {
		return ErrNoBody
	}
	return catch(func() { body.Call("appendChild", v) })
}

func (t *tree) Remove(el linkcopy.Element) error {
	v, err := unwrap(el)
	if err != nil {
		return err
	}
	parent := v.Get("parentNode")
	if parent.IsNull() || parent.IsUndefined() {
		return ErrNotAttached
	}
	return catch(func() { parent.Call("removeChild", v) })
}

type selection Page

func (s *selection) SelectContents(el linkcopy.Element) error {
	v, err := unwrap(el)
	if err != nil {
		return err
	}
	sel := s.window.Call("getSelection")
	if sel.IsNull() || sel.IsUndefined() {
		return ErrNoSelection
	}
	return catch(func() {
		r := s.document.Call("createRange")
		r.Call("selectNode", v)
		sel.Call("removeAllRanges")
		sel.Call("addRange", r)
	})
}

type dataTransfer struct {
	v js.Value
}

func (d dataTransfer) SetData(format, data string) {
	if d.v.IsNull() || d.v.IsUndefined() {
		return
	}
	d.v.Call("setData", format, data)
}

type copyEvent struct {
	v js.Value
}

func (e copyEvent) ClipboardData() linkcopy.ClipboardData {
	return dataTransfer{v: e.v.Get("clipboardData")}
}

func (e copyEvent) PreventDefault() {
	e.v.Call("preventDefault")
}

type clipboard Page

func (c *clipboard) OnceCopy(handler func(linkcopy.CopyEvent)) (remove func()) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			handler(copyEvent{v: args[0]})
		}
		return nil
	})
	c.document.Call("addEventListener", "copy", fn, map[string]any{"once": true})

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		c.document.Call("removeEventListener", "copy", fn)
		fn.Release()
	}
}

// ExecCopy runs document.execCommand("copy"). A thrown exception counts as a
// refusal.
func (c *clipboard) ExecCopy() bool {
	ok := false
	if err := catch(func() { ok = c.document.Call("execCommand", "copy").Truthy() }); err != nil {
		return false
	}
	return ok
}
