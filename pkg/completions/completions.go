package completions

import (
	"fmt"
	"strings"

	"linkcopy/pkg/logger"

	"github.com/spf13/cobra"
)

var descriptions = map[string]string{
	"table":    "Labelled fields for terminals",
	"json":     "Indented JSON",
	"yaml":     "YAML document",
	"markdown": "Only the Markdown link",
	"rich":     "HTML link and Markdown text",
	"plain":    "Markdown text only",
	"debug":    "Every copy step",
	"info":     "Normal output",
	"warn":     "Warnings and errors",
	"error":    "Errors only",
}

var logLevels = []string{"debug", "info", "warn", "error"}

// FixedValues completes a flag from a closed set of values, each annotated
// with its description.
func FixedValues(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		results := filterPrefix(values, toComplete)
		for i, v := range results {
			if desc := descriptions[v]; desc != "" {
				results[i] = fmt.Sprintf("%s\t%s", v, desc)
			}
		}
		return results, cobra.ShellCompDirectiveNoFileComp
	}
}

// CompleteSource completes the page argument: files, since URLs cannot be listed.
func CompleteSource(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"html", "htm"}, cobra.ShellCompDirectiveFilterFileExt
}

// RegisterValues wires FixedValues to flag on cmd.
func RegisterValues(cmd *cobra.Command, flag string, values []string) {
	if err := cmd.RegisterFlagCompletionFunc(flag, FixedValues(values)); err != nil {
		logger.Debug().Err(err).Str("flag", flag).Msg("completion not registered")
	}
}

func filterPrefix(items []string, prefix string) []string {
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

// RegisterCompletions registers completions for the root persistent flags and
// for the source argument of every command that takes one.
func RegisterCompletions(rootCmd *cobra.Command, formats []string) {
	RegisterValues(rootCmd, "format", formats)
	RegisterValues(rootCmd, "log-level", logLevels)

	for _, name := range []string{"copy", "show"} {
		if sub, _, err := rootCmd.Find([]string{name}); err == nil && sub != rootCmd {
			sub.ValidArgsFunction = CompleteSource
		}
	}
}
