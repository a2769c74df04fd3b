package cmd

import (
	"linkcopy/pkg/clipboard"
	"linkcopy/pkg/errors"

	"github.com/spf13/cobra"
)

var clipboardServeCmd = &cobra.Command{
	Use:    clipboard.ServeCommand,
	Hidden: true,
	Annotations: map[string]string{
		skipConfigAnnotation: "true",
	},
	Short: "Internal: serve clipboard content over Wayland (do not call directly)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := clipboard.ReadServeRequest(cmd.InOrStdin())
		if err != nil {
			return errors.CommandError("clipboard owner", err)
		}
		return errors.CommandError("clipboard owner", clipboard.ServeClipboard(req))
	},
}
