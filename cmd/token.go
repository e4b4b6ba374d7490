package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transparencia-tools/contratos-cli/pkg/output"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "API key management",
	Long:  "Save and inspect the Portal da Transparência API key",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Save the API key",
	Long:  "Save the API key to the profile file (~/.contratos/profile.yaml, mode 0600)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile.APIKey = args[0]
		if err := profile.Save(); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		output.Success("API key saved")
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active API key (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		key := cfg.Portal.APIKey
		if key == "" {
			output.Warn("No API key configured")
			output.Info("Set one with: contratos token set <key>")
			output.Info("Or export PORTAL_TRANSPARENCIA_TOKEN")
			return nil
		}
		output.Info("API key: %s", mask(key))
		return nil
	},
}

func mask(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
}
