//go:build linux

package clipboard

import (
	"encoding/json"
	"os"
	"os/exec"
	"syscall"

	"linkcopy/pkg/clipboard/internal/wayland"
	"linkcopy/pkg/logger"

	atotto "github.com/atotto/clipboard"
)

// WriteMultiFormat copies a link as both HTML and plain text. On Wayland it
// spawns a background clipboard-owner process; on X11 only the plain text
// is written.
func WriteMultiFormat(html, plain string) error {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		logger.Debug().Msg("no Wayland display, writing plain text only")
		return atotto.WriteAll(plain)
	}
	return spawnClipboardServer(html, plain)
}

func spawnClipboardServer(html, plain string) error {
	payload, err := json.Marshal(ServeRequest{HTML: html, Plain: plain})
	if err != nil {
		return err
	}

	// Re-exec this binary as the selection owner.
	cmd := exec.Command(os.Args[0], ServeCommand)
	// Own session so the child outlives the parent.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	// The request is written before returning; the parent may exit right after.
	if _, err := stdin.Write(payload); err != nil {
		stdin.Close()
		return err
	}
	if err := stdin.Close(); err != nil {
		return err
	}
	logger.Debug().Int("pid", cmd.Process.Pid).Msg("clipboard owner started")
	return nil
}

// ServeClipboard runs the Wayland clipboard owner for req, blocking until
// another client takes the selection.
func ServeClipboard(req ServeRequest) error {
	return wayland.Serve(formats(req.HTML, req.Plain))
}
