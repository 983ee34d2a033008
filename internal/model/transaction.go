package model

import "github.com/shopspring/decimal"

// Transaction is one movement on a customer's account.
type Transaction struct {
	CustomerID   string          `json:"customerId"`
	Date         string          `json:"date"` // raw cell text, compared as a string
	Concept      string          `json:"concept"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	MovementType string          `json:"movementType"`
}

// History is the date-ordered transaction list of a single customer.
type History []Transaction
