package cmd

import (
	stderrors "errors"
	"fmt"
	"slices"

	"linkcopy/pkg/clipboard"
	"linkcopy/pkg/completions"
	"linkcopy/pkg/config"
	"linkcopy/pkg/dom"
	"linkcopy/pkg/errors"
	"linkcopy/pkg/linkcopy"
	"linkcopy/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// clipboardSink builds the sink committed copies are forwarded to.
var clipboardSink = clipboard.Sink

var (
	copyPage   pageFlags
	copyMode   string
	copyStrict bool
	copyPrint  bool
)

var copyCmd = &cobra.Command{
	Use:   "copy [url|file|-]",
	Short: "Copy a page link as rich text and Markdown",
	Long: `Copy the page's title and URL to the clipboard in two formats at once:
text/html holds a hyperlink and text/plain holds a Markdown link whose text has
\ / : * ? " < > | removed.

If the clipboard refuses the copy, the command still exits successfully unless
--strict is set (or clipboard.strict in the config file).`,
	Example: `  # Copy a link to a web page
  linkcopy copy https://go.dev/doc/effective_go

  # Copy a saved page, using its canonical address
  linkcopy copy ./notes.html --url https://notes.example.com/today

  # No fetching at all
  linkcopy copy --title "Plain Title" --url https://a.b/c

  # Plain text only, and echo the Markdown link
  linkcopy copy https://example.com --mode plain --print`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := copyPage.validate(args); err != nil {
			return err
		}

		mode := cfg.Clipboard.Mode
		if cmd.Flags().Changed("mode") {
			mode = copyMode
		}
		if !slices.Contains(config.ValidModes(), mode) {
			return errors.ValidationError(fmt.Sprintf("%s: unknown clipboard mode %q (valid: %v)",
				errors.ErrMsgInvalidInput, mode, config.ValidModes()))
		}
		strict := cfg.Clipboard.Strict || copyStrict

		ctx, cancel := GetContext()
		defer cancel()

		page, err := loadPage(ctx, sourceArg(args), copyPage, dom.WithSink(clipboardSink(mode)))
		if err != nil {
			return err
		}

		payload, err := linkcopy.Copy(page)
		switch {
		case err == nil:
			green := color.New(color.FgGreen)
			green.Fprintf(cmd.ErrOrStderr(), "✓ Copied %s\n", payload.Plain)
		case stderrors.Is(err, linkcopy.ErrCopyNotPerformed):
			if strict {
				if sinkErr := page.SinkErr(); sinkErr != nil {
					return errors.ClipboardError(sinkErr)
				}
				return errors.NewWithAll(errors.ExitCodeClipboard, errors.ErrMsgCopyFailed, err,
					"The page or browser refused the copy. Run without --strict to ignore this.")
			}
			logger.Warn().Err(err).AnErr("clipboard", page.SinkErr()).Msg("link was not copied")
		default:
			return errors.WrapWithCode(err, errors.ExitCodeGeneral, errors.ErrMsgCopyFailed)
		}

		if copyPrint {
			fmt.Fprintln(cmd.OutOrStdout(), payload.Plain)
		}
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyPage.title, "title", "", "Title to use instead of the page's <title>")
	copyCmd.Flags().StringVar(&copyPage.url, "url", "", "URL to use instead of the page address")
	copyCmd.Flags().StringVar(&copyMode, "mode", config.DefaultMode, "Clipboard mode (rich, plain)")
	copyCmd.Flags().BoolVar(&copyStrict, "strict", false, "Fail when the clipboard refuses the copy")
	copyCmd.Flags().BoolVarP(&copyPrint, "print", "p", false, "Also print the Markdown link to stdout")

	completions.RegisterValues(copyCmd, "mode", config.ValidModes())
}
