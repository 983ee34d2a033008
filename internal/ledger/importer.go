package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediax/crediax/internal/model"
)

// Default type tags used by the Database workbook.
const (
	DefaultCustomerTag    = "{Customer}"
	DefaultTransactionTag = "{Transaction}"
)

// Columns names the workbook column that feeds each field.
type Columns struct {
	Type         string
	CustomerID   string
	Name         string
	Agent        string
	Balance      string
	Date         string
	Concept      string
	Amount       string
	TxBalance    string
	MovementType string
}

// Options controls how raw rows are classified and mapped.
type Options struct {
	Columns        Columns
	CustomerTag    string
	TransactionTag string
	// Now stamps ImportedAt. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the column layout of the Database sheet.
func DefaultOptions() Options {
	return Options{
		Columns: Columns{
			Type:         "Tipo",
			CustomerID:   "ID",
			Name:         "Nombre",
			Agent:        "Gestor",
			Balance:      "Saldo",
			Date:         "Fecha",
			Concept:      "Concepto",
			Amount:       "Importe",
			TxBalance:    "Saldo",
			MovementType: "TipoMovimiento",
		},
		CustomerTag:    DefaultCustomerTag,
		TransactionTag: DefaultTransactionTag,
	}
}

// Parse classifies rows into customers and per-customer histories.
// Rows with an unknown tag or an empty customer id are skipped and counted
// in the report; Parse never fails.
func Parse(rows []model.RawRow, opts Options) *model.Ledger {
	cols := opts.Columns
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var (
		customers []model.Customer
		index     = make(map[string]int)
		histories = make(map[string]model.History)
		report    = model.ImportReport{TotalRows: len(rows)}
	)

	for _, row := range rows {
		tag := row.Get(cols.Type)
		if tag != opts.CustomerTag && tag != opts.TransactionTag {
			report.SkippedUnknown++
			continue
		}

		id := row.Get(cols.CustomerID)
		if id == "" {
			report.SkippedMissingID++
			continue
		}

		if tag == opts.CustomerTag {
			report.CustomerRows++
			c := model.Customer{
				ID:             id,
				Name:           row.Get(cols.Name),
				Agent:          row.Get(cols.Agent),
				CurrentBalance: ParseAmount(row[cols.Balance]),
			}
			if i, ok := index[id]; ok {
				customers[i] = c
				report.Overwritten++
				continue
			}
			index[id] = len(customers)
			customers = append(customers, c)
			continue
		}

		report.TransactionRows++
		histories[id] = append(histories[id], model.Transaction{
			CustomerID:   id,
			Date:         row.Get(cols.Date),
			Concept:      row.Get(cols.Concept),
			Amount:       ParseAmount(row[cols.Amount]),
			Balance:      ParseAmount(row[cols.TxBalance]),
			MovementType: row.Get(cols.MovementType),
		})
	}

	for _, h := range histories {
		slices.SortStableFunc(h, func(a, b model.Transaction) int {
			return strings.Compare(a.Date, b.Date)
		})
	}

	return &model.Ledger{
		ImportedAt: now().UTC(),
		Customers:  customers,
		Histories:  histories,
		Report:     report,
	}
}

// ParseAmount converts a spreadsheet cell to a decimal. Empty or
// unparseable input yields zero.
//
// Spaces and a leading currency symbol are ignored. When both ',' and '.'
// appear, the last one is the decimal separator. A single ',' on its own is
// a decimal separator; repeated ',' or '.' are thousands separators.
func ParseAmount(s string) decimal.Decimal {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero
	}

	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	s = strings.TrimLeft(s, "$€£")
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = neg != (s[0] == '-')
		s = s[1:]
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return d.Neg()
	}
	return d
}
