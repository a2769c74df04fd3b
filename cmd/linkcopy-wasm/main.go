//go:build js && wasm

// Command linkcopy-wasm is the in-browser build of linkcopy. Loaded from a
// bookmarklet together with wasm_exec.js, it copies the current page's link
// once and exits:
//
//	GOOS=js GOARCH=wasm go build -o linkcopy.wasm ./cmd/linkcopy-wasm
//
// Browsers only honour the copy command shortly after a user gesture, so the
// module should be cached by the page that serves it.
package main

import (
	"syscall/js"

	"linkcopy/pkg/browser"
	"linkcopy/pkg/linkcopy"
	"linkcopy/pkg/logger"
)

func main() {
	if level := js.Global().Get("linkcopyLogLevel"); level.Type() == js.TypeString {
		logger.SetLevel(level.String())
	} else {
		logger.SetLevel("warn")
	}

	if _, err := linkcopy.Copy(browser.Current()); err != nil {
		logger.Debug().Err(err).Msg("link not copied")
	}
}
