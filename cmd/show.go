package cmd

import (
	"fmt"
	"io"
	"strings"

	"linkcopy/pkg/errors"
	"linkcopy/pkg/linkcopy"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showPage pageFlags

// linkPreview is what show prints for a page.
type linkPreview struct {
	Title    string `json:"title" yaml:"title"`
	URL      string `json:"url" yaml:"url"`
	HTML     string `json:"html" yaml:"html"`
	Markdown string `json:"markdown" yaml:"markdown"`
	// Rendered is the HTML payload as a rich-text editor exporting Markdown
	// would see it.
	Rendered string `json:"rendered,omitempty" yaml:"rendered,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show [url|file|-]",
	Short: "Print the clipboard payload for a page without copying",
	Long: `Run the copy against an in-memory page and print both representations
instead of touching the system clipboard.`,
	Example: `  linkcopy show https://go.dev/blog
  linkcopy show --title 'My Post: "Draft" <v2>' --url 'https://example.com/p?x=1' --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := showPage.validate(args); err != nil {
			return err
		}

		ctx, cancel := GetContext()
		defer cancel()

		page, err := loadPage(ctx, sourceArg(args), showPage)
		if err != nil {
			return err
		}

		if _, err := linkcopy.Copy(page); err != nil {
			return errors.NewWithError(errors.ExitCodeGeneral, errors.ErrMsgCopyFailed, err)
		}
		payload := page.ClipboardContents()

		preview := linkPreview{
			Title:    page.Title(),
			URL:      page.URL(),
			HTML:     payload.HTML,
			Markdown: payload.Plain,
			Rendered: htmlToMarkdown(payload.HTML),
		}

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		switch out.GetFormat() {
		case FormatMarkdown:
			_, err := fmt.Fprintln(cmd.OutOrStdout(), preview.Markdown)
			return err
		case FormatTable:
			return writePreviewTable(cmd.OutOrStdout(), preview)
		default:
			return out.Write(preview)
		}
	},
}

func writePreviewTable(w io.Writer, p linkPreview) error {
	label := color.New(color.FgCyan, color.Bold)
	rows := []struct{ name, value string }{
		{"Title", p.Title},
		{"URL", p.URL},
		{"text/html", p.HTML},
		{"text/plain", p.Markdown},
		{"Rendered", p.Rendered},
	}
	for _, row := range rows {
		if _, err := label.Fprintf(w, "%-11s", row.name); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, row.value); err != nil {
			return err
		}
	}
	return nil
}

func htmlToMarkdown(html string) string {
	if html == "" {
		return ""
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(markdown)
}

func init() {
	showCmd.Flags().StringVar(&showPage.title, "title", "", "Title to use instead of the page's <title>")
	showCmd.Flags().StringVar(&showPage.url, "url", "", "URL to use instead of the page address")
}
