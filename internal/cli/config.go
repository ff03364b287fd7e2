package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpix/bootstrap/internal/branding"
	"github.com/corpix/bootstrap/internal/config"
	"github.com/corpix/bootstrap/internal/output"
	"github.com/corpix/bootstrap/internal/scaffold"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.

Keys: ` + strings.Join(config.Keys, ", ") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := validateConfigValue(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnown(args[0]) {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := config.List()
		for _, key := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", output.StyleDim.Render(fmt.Sprintf("%-10s", key)), values[key])
		}
		return nil
	},
}

// validateConfigValue rejects values "bootstrap new" would refuse later.
func validateConfigValue(key, value string) error {
	switch key {
	case config.KeyUser:
		return validateUser(value)
	case config.KeyHost:
		return validateHost(value)
	case config.KeyHooks:
		_, err := scaffold.ParseHookPolicy(value)
		return err
	}
	return nil
}
