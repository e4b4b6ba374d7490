package main

import (
	"os"

	"github.com/transparencia-tools/contratos-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
