package ledger

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/crediax/crediax/internal/model"
)

// ListCustomers returns the customers whose id, name or agent contains query,
// ignoring case. An empty query returns every customer in import order.
func ListCustomers(l *model.Ledger, query string) []model.Customer {
	if l == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(l.Customers)
	}

	fold := cases.Fold()
	needle := fold.String(norm.NFC.String(query))
	contains := func(s string) bool {
		return strings.Contains(fold.String(norm.NFC.String(s)), needle)
	}

	result := []model.Customer{}
	for _, c := range l.Customers {
		if contains(c.ID) || contains(c.Name) || contains(c.Agent) {
			result = append(result, c)
		}
	}
	return result
}

// HistoryOf returns the ordered transactions of a customer. Unknown ids
// yield an empty history.
func HistoryOf(l *model.Ledger, customerID string) model.History {
	if l == nil {
		return model.History{}
	}
	h, ok := l.Histories[strings.TrimSpace(customerID)]
	if !ok {
		return model.History{}
	}
	return h
}

// FindCustomer returns the customer with the given id.
func FindCustomer(l *model.Ledger, customerID string) (model.Customer, bool) {
	if l == nil {
		return model.Customer{}, false
	}
	customerID = strings.TrimSpace(customerID)
	for _, c := range l.Customers {
		if c.ID == customerID {
			return c, true
		}
	}
	return model.Customer{}, false
}
