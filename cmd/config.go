package cmd

import (
	"fmt"
	"os"

	"linkcopy/pkg/config"
	"linkcopy/pkg/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage linkcopy configuration",
	Long:  `Inspect and create the linkcopy configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after applying the config file, LINKCOPY_* environment variables and defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(cfg)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Annotations: map[string]string{
		skipConfigAnnotation: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Annotations: map[string]string{
		skipConfigAnnotation: "true",
	},
	Example: `  linkcopy config init
  linkcopy config init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return errors.NewWithSuggestion(errors.ExitCodeFileOperation,
				fmt.Sprintf("config file already exists: %s", path),
				"Use --force to overwrite it.")
		}
		if err := config.Save(path, config.Default()); err != nil {
			return errors.Wrap(err, "config init")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ExitCodeConfig, "failed to get config path")
	}
	return path, nil
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}
