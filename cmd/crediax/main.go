package main

import (
	"os"

	"github.com/shopspring/decimal"

	"github.com/crediax/crediax/internal/commands"
)

func main() {
	// Amounts are numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
