// Package seeder generates realistic raw contract payloads in the portal's
// wire shape. It backs the demo command and provides fixtures for tests,
// covering both historical field spellings so the normalizer's alternate
// paths stay exercised.
package seeder

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/transparencia-tools/contratos-cli/internal/portal"
)

var statuses = []string{"Ativo", "Encerrado", "Rescindido", "Suspenso"}

// Seed makes generation deterministic; pass 0 for a random run.
func Seed(seed int64) {
	gofakeit.Seed(seed)
}

// RawContracts generates n raw contracts. Roughly half use the legacy
// field spellings (numeroContrato, fornecedor.razaoSocialReceita,
// fornecedor.cnpj) so downstream code sees the same mix the real API
// returns.
func RawContracts(n int) []portal.RawContract {
	out := make([]portal.RawContract, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, RawContract(i%2 == 1))
	}
	return out
}

// RawContract generates one raw contract. legacy selects the older field
// spellings.
func RawContract(legacy bool) portal.RawContract {
	start := gofakeit.DateRange(
		time.Now().AddDate(-3, 0, 0),
		time.Now().AddDate(0, -1, 0),
	)
	end := start.AddDate(0, gofakeit.Number(6, 48), 0)
	initial := float64(gofakeit.Number(10_000, 5_000_000)) + gofakeit.Float64Range(0, 0.99)

	raw := portal.RawContract{
		"objeto":             gofakeit.Sentence(8),
		"situacaoContrato":   statuses[gofakeit.Number(0, len(statuses)-1)],
		"valorInicialCompra": initial,
		"valorFinalCompra":   initial * gofakeit.Float64Range(1.0, 1.25),
		"dataInicioVigencia": start.Format("2006-01-02"),
		"dataFimVigencia":    end.Format("2006-01-02"),
		"unidadeGestoraCompras": map[string]any{
			"codigo": fmt.Sprintf("%06d", gofakeit.Number(100000, 199999)),
			"nome":   gofakeit.Company(),
		},
		"unidadeGestora": map[string]any{
			"codigo": fmt.Sprintf("%06d", gofakeit.Number(100000, 199999)),
			"nome":   gofakeit.Company(),
			"orgaoVinculado": map[string]any{
				"codigoSIAFI": fmt.Sprintf("%05d", gofakeit.Number(10000, 99999)),
				"nome":        gofakeit.Company(),
			},
		},
	}

	number := fmt.Sprintf("%d/%d", gofakeit.Number(1, 999), start.Year())
	supplier := gofakeit.Company()
	cnpj := fakeCNPJ()
	if legacy {
		raw["numeroContrato"] = number
		raw["fornecedor"] = map[string]any{
			"razaoSocialReceita": supplier,
			"cnpj":               cnpj,
		}
	} else {
		raw["numero"] = number
		raw["fornecedor"] = map[string]any{
			"nome":          supplier,
			"cnpjFormatado": formatCNPJ(cnpj),
		}
	}
	return raw
}

func fakeCNPJ() string {
	digits := make([]byte, 14)
	for i := range digits {
		digits[i] = byte('0' + gofakeit.Number(0, 9))
	}
	return string(digits)
}

func formatCNPJ(d string) string {
	if len(d) != 14 {
		return d
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}
