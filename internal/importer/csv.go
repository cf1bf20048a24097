package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ColumnDate          = "date"
	ColumnDescription   = "description"
	ColumnAmount        = "amount"
	ColumnMerchant      = "merchant"
	ColumnCurrency      = "currency"
	ColumnPaymentMethod = "payment_method"
)

var (
	ErrEmptyFile      = errors.New("csv file is empty")
	ErrMissingColumns = errors.New("csv must contain columns: date, description, amount")
	ErrMalformedCSV   = errors.New("csv file could not be parsed")
)

// requiredColumns must all be present in the header row
var requiredColumns = []string{ColumnDate, ColumnDescription, ColumnAmount}

// dateLayouts are tried in order when parsing the date column. Slash dates are
// month-first; day-first only applies when the first number cannot be a month.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2/1/2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Row is one CSV record keyed by its header. Line is the 1-based line number in the file.
type Row struct {
	Line          int
	Date          string
	Description   string
	Amount        string
	Merchant      string
	Currency      string
	PaymentMethod string
	Raw           map[string]string
}

// Parse reads a header-driven CSV. Header names are matched case-insensitively and
// surrounding whitespace is trimmed. Extra columns are preserved in Row.Raw.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, ErrMissingColumns
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		if isBlank(record) {
			continue
		}

		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				raw[strings.TrimSpace(name)] = record[i]
			}
		}

		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rows = append(rows, Row{
			Line:          line,
			Date:          field(ColumnDate),
			Description:   field(ColumnDescription),
			Amount:        field(ColumnAmount),
			Merchant:      field(ColumnMerchant),
			Currency:      strings.ToUpper(field(ColumnCurrency)),
			PaymentMethod: field(ColumnPaymentMethod),
			Raw:           raw,
		})
	}

	return rows, nil
}

// ParseDate parses a date cell using the supported layouts and returns midnight UTC
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ParseAmount parses an amount cell. Currency symbols, thousands separators and
// accounting parentheses are accepted: "(£1,234.50)" is -1234.50.
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return decimal.Zero, errors.New("amount is empty")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognized amount %q", value)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
