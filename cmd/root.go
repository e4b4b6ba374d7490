package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/transparencia-tools/contratos-cli/internal/config"
	"github.com/transparencia-tools/contratos-cli/internal/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	profile *config.Profile
)

var rootCmd = &cobra.Command{
	Use:   "contratos",
	Short: "Portal da Transparência contracts CLI",
	Long: `contratos queries government procurement contracts from the Portal da
Transparência API, normalizes the result into a flat table, and renders or
exports it.

An API key is required for real queries: request one at
https://api.portaldatransparencia.gov.br and provide it via the
PORTAL_TRANSPARENCIA_TOKEN environment variable or 'contratos token set'.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.contratos/config.yaml)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = &config.Config{}
	}

	profile, err = config.LoadProfile("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load profile: %v\n", err)
		profile = &config.Profile{}
	}
	if cfg.Portal.APIKey == "" {
		cfg.Portal.APIKey = profile.APIKey
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = logging.ParseLevel("debug")
	}
	logging.SetDefault(logging.New(level, cfg.Logging.Format))
}
