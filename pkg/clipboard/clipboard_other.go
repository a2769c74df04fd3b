//go:build !linux

package clipboard

import atotto "github.com/atotto/clipboard"

// WriteMultiFormat copies a link to the clipboard. Outside Linux only the
// plain text is written.
func WriteMultiFormat(html, plain string) error {
	return atotto.WriteAll(plain)
}

// ServeClipboard is only used on Linux.
func ServeClipboard(req ServeRequest) error {
	return nil
}
