package model

import "github.com/shopspring/decimal"

// Customer is one customer row from the imported workbook.
type Customer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Agent          string          `json:"agent"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}
