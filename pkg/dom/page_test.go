package dom

import (
	"errors"
	"strings"
	"testing"

	"linkcopy/pkg/linkcopy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>
   Release   notes
	v2 </title></head>
<body><p id="intro">Hello <b>world</b></p></body>
</html>`

func parseSample(t *testing.T, opts ...Option) *Page {
	t.Helper()
	p, err := Parse(strings.NewReader(samplePage), "https://example.com/notes", opts...)
	require.NoError(t, err)
	return p
}

func TestParse_TitleCollapsesWhitespace(t *testing.T) {
	p := parseSample(t)

	assert.Equal(t, "Release notes v2", p.Title())
	assert.Equal(t, "https://example.com/notes", p.URL())
}

func TestParse_TitleIgnoresSVGTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "svg title only",
			doc:  `<html><body><svg><title>Icon</title></svg><p>x</p></body></html>`,
			want: "",
		},
		{
			name: "svg title before html title",
			doc:  `<html><body><svg><title>Icon</title></svg><title>Real</title></body></html>`,
			want: "Real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(strings.NewReader(tt.doc), "https://example.com/")
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Title())
		})
	}
}

func TestParse_WithTitleOverrides(t *testing.T) {
	p := parseSample(t, WithTitle("Custom"))
	assert.Equal(t, "Custom", p.Title())
}

func TestNew_BlankDocument(t *testing.T) {
	p := New("Blank", "about:blank")

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Equal(t, "<html><head></head><body></body></html>", out)
	assert.Equal(t, 4, p.NodeCount())
}

func TestAppendAndRemove(t *testing.T) {
	p := parseSample(t)
	before := p.NodeCount()
	doc := p.Document()

	el := doc.CreateAnchor("https://a.b/c", "Link")
	require.NoError(t, doc.Append(el))
	assert.Equal(t, before+2, p.NodeCount())
	assert.True(t, el.(*Element).Attached())

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="https://a.b/c">Link</a></body>`)

	require.NoError(t, doc.Remove(el))
	assert.Equal(t, before, p.NodeCount())
	assert.False(t, el.(*Element).Attached())

	assert.ErrorIs(t, doc.Remove(el), ErrNotAttached)
}

type otherElement struct{}

func (otherElement) OuterHTML() string { return "" }

func TestForeignElementsAreRejected(t *testing.T) {
	p := New("t", "u")

	assert.ErrorIs(t, p.Document().Append(otherElement{}), ErrForeignElement)
	assert.ErrorIs(t, p.Document().Remove(otherElement{}), ErrForeignElement)
	assert.ErrorIs(t, p.Selection().SelectContents(otherElement{}), ErrForeignElement)
}

func TestOuterHTMLEscapesText(t *testing.T) {
	p := New("t", "u")
	el := p.Document().CreateAnchor("https://e.x/?a=1&b=2", `a <b> "c"`)

	out := el.OuterHTML()
	assert.Contains(t, out, "&lt;b&gt;")

	back, err := Parse(strings.NewReader(out), "u")
	require.NoError(t, err)
	a := back.doc.Find("a")
	require.Equal(t, 1, a.Length())
	href, _ := a.Attr("href")
	assert.Equal(t, "https://e.x/?a=1&b=2", href)
	assert.Equal(t, `a <b> "c"`, a.Text())
}

func TestSelectContentsReplacesRanges(t *testing.T) {
	p := parseSample(t)
	doc := p.Document()

	first := doc.CreateAnchor("https://one", "one")
	second := doc.CreateAnchor("https://two", "two")
	require.NoError(t, doc.Append(first))
	require.NoError(t, doc.Append(second))

	require.NoError(t, p.Selection().SelectContents(first))
	require.NoError(t, p.Selection().SelectContents(second))
	assert.Equal(t, "two", p.SelectedText())

	require.NoError(t, doc.Remove(second))
	assert.Equal(t, "", p.SelectedText())
}

func TestSelectContentsRequiresAttachedElement(t *testing.T) {
	p := New("t", "u")
	el := p.Document().CreateAnchor("https://x", "x")

	assert.ErrorIs(t, p.Selection().SelectContents(el), ErrNotAttached)
}

func TestExecCopy_DefaultActionCopiesSelection(t *testing.T) {
	p := parseSample(t)
	el := p.Document().CreateAnchor("https://x", "selected text")
	require.NoError(t, p.Document().Append(el))
	require.NoError(t, p.Selection().SelectContents(el))

	require.True(t, p.Clipboard().ExecCopy())

	got := p.ClipboardContents()
	assert.Equal(t, `<a href="https://x">selected text</a>`, got.HTML)
	assert.Equal(t, "selected text", got.Plain)
}

func TestExecCopy_PreventedEventCommitsEventData(t *testing.T) {
	p := New("t", "u")
	p.Clipboard().OnceCopy(func(ev linkcopy.CopyEvent) {
		ev.ClipboardData().SetData(linkcopy.FormatHTML, "<i>x</i>")
		ev.ClipboardData().SetData(linkcopy.FormatPlain, "x")
		ev.PreventDefault()
	})

	require.True(t, p.Clipboard().ExecCopy())
	assert.Equal(t, linkcopy.Payload{HTML: "<i>x</i>", Plain: "x"}, p.ClipboardContents())
}

func TestExecCopy_DataWithoutPreventDefaultIsIgnored(t *testing.T) {
	p := New("t", "u")
	p.Clipboard().OnceCopy(func(ev linkcopy.CopyEvent) {
		ev.ClipboardData().SetData(linkcopy.FormatPlain, "ignored")
	})

	require.True(t, p.Clipboard().ExecCopy())
	assert.True(t, p.ClipboardContents().IsZero())
}

func TestOnceCopy_FiresOnce(t *testing.T) {
	p := New("t", "u")
	calls := 0
	p.Clipboard().OnceCopy(func(linkcopy.CopyEvent) { calls++ })

	p.Clipboard().ExecCopy()
	p.Clipboard().ExecCopy()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, p.CopyCount())
}

func TestOnceCopy_RemoveBeforeDispatch(t *testing.T) {
	p := New("t", "u")
	calls := 0
	remove := p.Clipboard().OnceCopy(func(linkcopy.CopyEvent) { calls++ })
	remove()
	remove()

	p.Clipboard().ExecCopy()
	assert.Equal(t, 0, calls)
}

func TestAddCopyListener_Persistent(t *testing.T) {
	p := New("t", "u")
	var order []string
	removePage := p.AddCopyListener(func(linkcopy.CopyEvent) { order = append(order, "page") })
	p.Clipboard().OnceCopy(func(linkcopy.CopyEvent) { order = append(order, "once") })

	p.Clipboard().ExecCopy()
	p.Clipboard().ExecCopy()
	removePage()
	p.Clipboard().ExecCopy()

	assert.Equal(t, []string{"page", "once", "page"}, order)
}

func TestListenerRemovedDuringDispatchIsSkipped(t *testing.T) {
	p := New("t", "u")
	calls := 0
	var removeSecond func()
	p.AddCopyListener(func(linkcopy.CopyEvent) { removeSecond() })
	removeSecond = p.AddCopyListener(func(linkcopy.CopyEvent) { calls++ })

	p.Clipboard().ExecCopy()
	assert.Equal(t, 0, calls)
}

func TestExecCopy_Disabled(t *testing.T) {
	p := New("t", "u", WithCopyDisabled())
	calls := 0
	p.Clipboard().OnceCopy(func(linkcopy.CopyEvent) { calls++ })

	assert.False(t, p.Clipboard().ExecCopy())
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, p.CopyCount())
}

func TestExecCopy_Sink(t *testing.T) {
	var received []linkcopy.Payload
	p := New("t", "u", WithSink(func(pl linkcopy.Payload) error {
		received = append(received, pl)
		return nil
	}))
	p.Clipboard().OnceCopy(func(ev linkcopy.CopyEvent) {
		linkcopy.Payload{HTML: "h", Plain: "p"}.WriteTo(ev.ClipboardData())
		ev.PreventDefault()
	})

	require.True(t, p.Clipboard().ExecCopy())
	assert.Equal(t, []linkcopy.Payload{{HTML: "h", Plain: "p"}}, received)
	assert.NoError(t, p.SinkErr())
}

func TestExecCopy_SinkFailureLeavesClipboard(t *testing.T) {
	sinkErr := errors.New("no display")
	p := New("t", "u", WithSink(func(linkcopy.Payload) error { return sinkErr }))
	p.Clipboard().OnceCopy(func(ev linkcopy.CopyEvent) {
		linkcopy.Payload{HTML: "h", Plain: "p"}.WriteTo(ev.ClipboardData())
		ev.PreventDefault()
	})

	assert.False(t, p.Clipboard().ExecCopy())
	assert.True(t, p.ClipboardContents().IsZero())
	assert.ErrorIs(t, p.SinkErr(), sinkErr)
}
