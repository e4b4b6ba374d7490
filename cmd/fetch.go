package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
	"github.com/transparencia-tools/contratos-cli/internal/export"
	"github.com/transparencia-tools/contratos-cli/internal/logging"
	"github.com/transparencia-tools/contratos-cli/internal/portal"
	"github.com/transparencia-tools/contratos-cli/internal/service"
	"github.com/transparencia-tools/contratos-cli/pkg/output"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and normalize contracts for an agency",
	Long:  "Fetch every contract page for an agency, normalize the records, apply filters, and render or export the result",
	Example: `  # All contracts for an agency (SIAFI code)
  contratos fetch --orgao 26246

  # Contracts from one supplier, still in force today
  contratos fetch --orgao 26246 --cnpj 00000000000191 --vigentes

  # High-value contracts of one executing unit, exported to a spreadsheet
  contratos fetch --orgao 26246 --unidade 153054 --valor-minimo 1000000 --export contratos.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Portal.APIKey == "" {
			return fmt.Errorf("no API key configured: set PORTAL_TRANSPARENCIA_TOKEN or run 'contratos token set'")
		}

		agency, _ := cmd.Flags().GetString("orgao")
		cnpj, _ := cmd.Flags().GetString("cnpj")
		validFrom, _ := cmd.Flags().GetString("vigencia-inicio")
		validTo, _ := cmd.Flags().GetString("vigencia-fim")
		minValueStr, _ := cmd.Flags().GetString("valor-minimo")
		unit, _ := cmd.Flags().GetString("unidade")
		onlyValid, _ := cmd.Flags().GetBool("vigentes")
		pageLimit, _ := cmd.Flags().GetInt("max-paginas")

		var minValue *decimal.Decimal
		if minValueStr != "" {
			d, err := decimal.NewFromString(minValueStr)
			if err != nil {
				return fmt.Errorf("invalid --valor-minimo %q: %w", minValueStr, err)
			}
			minValue = &d
		}
		if pageLimit <= 0 {
			pageLimit = cfg.Query.PageLimit
		}

		client := portal.New(portal.Config{
			BaseURL:   cfg.Portal.BaseURL,
			APIKey:    cfg.Portal.APIKey,
			Timeout:   cfg.Portal.Timeout,
			PagePause: cfg.Portal.PagePause,
		}, slog.Default().With(logging.Component("portal")))
		svc := service.New(client, cfg.Query.CacheSize, slog.Default().With(logging.Component("service")))

		records, err := svc.FetchAndNormalize(cmd.Context(), service.Query{
			Portal: portal.Query{
				AgencyCode:        agency,
				SupplierTaxID:     cnpj,
				ValidityStartFrom: validFrom,
				ValidityEndTo:     validTo,
				MinValue:          minValue,
			},
			ExecutingUnit: unit,
			OnlyValid:     onlyValid,
			PageLimit:     pageLimit,
		})
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		return renderRecords(cmd, records)
	},
}

// renderRecords handles the shared render/export tail of fetch and demo.
func renderRecords(cmd *cobra.Command, records []contract.Record) error {
	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := export.WriteFile(exportPath, records); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		output.Success("Exported %d contracts to %s", len(records), exportPath)
		return nil
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" {
		return output.JSON(records)
	}

	if len(records) == 0 {
		output.Warn("No contracts matched the query")
		return nil
	}
	table := output.NewTable(contract.Columns())
	for _, r := range records {
		table.AddRow(r.Row())
	}
	table.Render()
	output.Success("%d contracts", len(records))
	return nil
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("orgao", "", "Agency SIAFI code (required)")
	fetchCmd.Flags().String("cnpj", "", "Supplier CNPJ/CPF filter")
	fetchCmd.Flags().String("vigencia-inicio", "", "Validity start filter (DD/MM/AAAA)")
	fetchCmd.Flags().String("vigencia-fim", "", "Validity end filter (DD/MM/AAAA)")
	fetchCmd.Flags().String("valor-minimo", "", "Minimum contract value filter")
	fetchCmd.Flags().String("unidade", "", "Executing unit code (client-side exact match)")
	fetchCmd.Flags().Bool("vigentes", false, "Keep only contracts still in force today")
	fetchCmd.Flags().Int("max-paginas", 0, "Page cap (default from config, 50)")
	fetchCmd.Flags().String("export", "", "Export to file instead of rendering (.csv or .xlsx)")
	if err := fetchCmd.MarkFlagRequired("orgao"); err != nil {
		panic(fmt.Sprintf("failed to mark orgao as required: %v", err))
	}
}
