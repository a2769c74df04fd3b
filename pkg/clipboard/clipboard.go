// Package clipboard writes links to the system clipboard with dual-format
// support. On Linux/Wayland it daemonizes a clipboard server that serves both
// text/html and text/plain, so pasting into rich-text editors renders the
// link while pasting into plain-text editors yields the Markdown form.
package clipboard

import (
	"encoding/json"
	"fmt"
	"io"

	"linkcopy/pkg/linkcopy"

	atotto "github.com/atotto/clipboard"
)

// ServeCommand is the hidden subcommand that runs the Wayland owner process.
const ServeCommand = "__clipboard-serve"

const (
	ModeRich  = "rich"
	ModePlain = "plain"
)

// ServeRequest is the payload handed to the clipboard owner on stdin.
type ServeRequest struct {
	HTML  string
	Plain string
}

// ReadServeRequest decodes a ServeRequest written by the parent process.
func ReadServeRequest(r io.Reader) (ServeRequest, error) {
	var req ServeRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return ServeRequest{}, fmt.Errorf("decode clipboard request: %w", err)
	}
	return req, nil
}

// Write places p on the system clipboard according to mode.
func Write(mode string, p linkcopy.Payload) error {
	switch mode {
	case ModePlain:
		return atotto.WriteAll(p.Plain)
	case ModeRich, "":
		return WriteMultiFormat(p.HTML, p.Plain)
	default:
		return fmt.Errorf("unknown clipboard mode %q", mode)
	}
}

// Sink returns a function that writes payloads with mode, for dom.WithSink.
func Sink(mode string) func(linkcopy.Payload) error {
	return func(p linkcopy.Payload) error {
		return Write(mode, p)
	}
}

// formats lists every MIME type the Wayland owner offers for a payload.
func formats(html, plain string) map[string][]byte {
	return map[string][]byte{
		linkcopy.FormatHTML:        []byte(html),
		"text/plain;charset=utf-8": []byte(plain),
		linkcopy.FormatPlain:       []byte(plain),
		"UTF8_STRING":              []byte(plain),
		"STRING":                   []byte(plain),
	}
}
