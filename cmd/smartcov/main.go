package main

import (
	"fmt"
	"os"

	"github.com/Dammyololade/smart-coverage-sub001/cmd/smartcov/app"
)

func main() {
	if err := app.NewSmartCovCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
