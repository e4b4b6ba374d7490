package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transparencia-tools/contratos-cli/internal/normalizer"
	"github.com/transparencia-tools/contratos-cli/internal/seeder"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the pipeline on generated data",
	Long: `Generate realistic fake contracts in the portal's wire shape and run them
through the normalizer. Useful for trying the tool, rendering, and export
without an API key.`,
	Example: `  contratos demo --count 20
  contratos demo --count 100 --export demo.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		if count <= 0 {
			return fmt.Errorf("--count must be positive")
		}

		seeder.Seed(seed)
		records := normalizer.Normalize(seeder.RawContracts(count))
		return renderRecords(cmd, records)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Int("count", 20, "Number of fake contracts to generate")
	demoCmd.Flags().Int64("seed", 0, "Deterministic generator seed (0 = random)")
	demoCmd.Flags().String("export", "", "Export to file instead of rendering (.csv or .xlsx)")
}
