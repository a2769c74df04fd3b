package linkcopy

import "regexp"

// MIME types written into the clipboard.
const (
	FormatHTML  = "text/html"
	FormatPlain = "text/plain"
)

// Characters that break filesystem names and Markdown link text.
var unsafeTitleChars = regexp.MustCompile(`(?i)[\\/:*?"<>|]`)

// Payload is the two-representation clipboard entry for one link.
type Payload struct {
	HTML  string `json:"html" yaml:"html"`
	Plain string `json:"plain" yaml:"plain"`
}

// WriteTo stores both representations in data.
func (p Payload) WriteTo(data ClipboardData) {
	data.SetData(FormatHTML, p.HTML)
	data.SetData(FormatPlain, p.Plain)
}

// IsZero reports whether neither representation is set.
func (p Payload) IsZero() bool {
	return p.HTML == "" && p.Plain == ""
}

// SanitizeTitle removes \ / : * ? " < > | from title, keeping every other
// character in order.
func SanitizeTitle(title string) string {
	return unsafeTitleChars.ReplaceAllString(title, "")
}

// MarkdownLink returns [title](url) with the title sanitized.
func MarkdownLink(title, url string) string {
	return "[" + SanitizeTitle(title) + "](" + url + ")"
}
