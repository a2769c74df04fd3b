package linkcopy

// PageContext is everything the copier needs from the page it runs against.
// Browsers, the in-memory DOM and test fakes all implement it.
type PageContext interface {
	Title() string
	URL() string
	Document() Document
	Selection() Selection
	Clipboard() Clipboard
}

// Element is a node created through Document.CreateAnchor.
type Element interface {
	OuterHTML() string
}

// Document mutates the page's visible content tree.
type Document interface {
	CreateAnchor(href, text string) Element
	// Append attaches el to the end of the page body.
	Append(el Element) error
	// Remove detaches el. It fails if el is not attached.
	Remove(el Element) error
}

// Selection controls the page's text selection.
type Selection interface {
	// SelectContents replaces every existing range with a single range
	// spanning el.
	SelectContents(el Element) error
}

// Clipboard intercepts and triggers copy events.
type Clipboard interface {
	// OnceCopy registers handler for the next copy event only. The returned
	// func deregisters it and is safe to call after the handler has fired.
	OnceCopy(handler func(CopyEvent)) (remove func())
	// ExecCopy runs the host copy command. Listeners registered with OnceCopy
	// are dispatched before it returns. It reports false when the host refused.
	ExecCopy() bool
}

// CopyEvent is the event passed to copy handlers.
type CopyEvent interface {
	ClipboardData() ClipboardData
	PreventDefault()
}

// ClipboardData is the per-event data transfer object.
type ClipboardData interface {
	SetData(format, data string)
}
