package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the supermarket sales schema.
const (
	ColBranch       = "Branch"
	ColCustomerType = "Customer type"
	ColPayment      = "Payment"
	ColProductLine  = "Product line"
	ColDate         = "Date"
	ColTime         = "Time"
	ColUnitPrice    = "Unit price"
	ColQuantity     = "Quantity"
	ColGrossIncome  = "gross income"
	ColRating       = "Rating"
)

// TotalCandidates lists the accepted names of the total-value column, highest priority first.
var TotalCandidates = []string{"Total", "total", "Sales", "sales", "Total Sales"}

// dateLayouts are tried in order; month-first wins over day-first for ambiguous slashes.
var dateLayouts = []string{
	"2006-01-02", "1/2/2006", "01/02/2006", "2006/01/02",
	"2006-01-02 15:04:05", time.RFC3339,
}

// TotalColumn is the resolved total-value column.
type TotalColumn struct {
	Name  string
	Index int
}

// Transaction is one typed row of the sales table.
type Transaction struct {
	Branch       string
	CustomerType string
	Payment      string
	ProductLine  string
	Date         time.Time
	Time         string
	UnitPrice    float64
	Quantity     int
	Total        float64
	GrossIncome  float64
	Rating       float64
}

// Dataset is a normalized table with typed transactions.
type Dataset struct {
	Table        *Table
	Total        TotalColumn
	Transactions []Transaction
}

// ResolveTotalColumn returns the first candidate present in columns.
func ResolveTotalColumn(columns []string) (TotalColumn, error) {
	present := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := present[c]; !ok {
			present[c] = i
		}
	}
	for _, cand := range TotalCandidates {
		if i, ok := present[cand]; ok {
			return TotalColumn{Name: cand, Index: i}, nil
		}
	}
	cands := make([]string, len(TotalCandidates))
	copy(cands, TotalCandidates)
	return TotalColumn{}, &MissingColumnError{Candidates: cands}
}

// Normalize resolves the total column, rewrites the Date cells as ISO dates and the
// Time cells as trimmed text, and converts every row into a Transaction.
// Any missing column or unparseable cell fails the whole call.
func Normalize(t *Table) (*Dataset, error) {
	if t == nil {
		return nil, errors.New("normalize: nil table")
	}
	total, err := ResolveTotalColumn(t.Columns)
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for _, name := range []string{
		ColBranch, ColCustomerType, ColPayment, ColProductLine, ColDate, ColTime,
		ColUnitPrice, ColQuantity, ColGrossIncome, ColRating,
	} {
		i, ok := t.ColumnIndex(name)
		if !ok {
			return nil, &MissingColumnError{Candidates: []string{name}}
		}
		idx[name] = i
	}

	// The whole Date column parses before any cell is rewritten, so a failure leaves t untouched.
	dates := make([]time.Time, len(t.Rows))
	for r, row := range t.Rows {
		d, err := ParseDate(row[idx[ColDate]])
		if err != nil {
			return nil, &ParseError{Row: r + 1, Column: ColDate, Value: row[idx[ColDate]], Err: err}
		}
		dates[r] = d
	}
	for r, row := range t.Rows {
		row[idx[ColDate]] = dates[r].Format("2006-01-02")
		row[idx[ColTime]] = strings.TrimSpace(row[idx[ColTime]])
	}

	ds := &Dataset{Table: t, Total: total, Transactions: make([]Transaction, 0, len(t.Rows))}
	for r, row := range t.Rows {
		tx := Transaction{
			Branch:       strings.TrimSpace(row[idx[ColBranch]]),
			CustomerType: strings.TrimSpace(row[idx[ColCustomerType]]),
			Payment:      strings.TrimSpace(row[idx[ColPayment]]),
			ProductLine:  strings.TrimSpace(row[idx[ColProductLine]]),
			Date:         dates[r],
			Time:         row[idx[ColTime]],
		}
		num := func(col string, i int) (float64, error) {
			v, err := ParseNumber(row[i])
			if err != nil {
				return 0, &ParseError{Row: r + 1, Column: col, Value: row[i], Err: err}
			}
			return v, nil
		}
		if tx.UnitPrice, err = num(ColUnitPrice, idx[ColUnitPrice]); err != nil {
			return nil, err
		}
		q, err := num(ColQuantity, idx[ColQuantity])
		if err != nil {
			return nil, err
		}
		if q != math.Trunc(q) {
			return nil, &ParseError{Row: r + 1, Column: ColQuantity, Value: row[idx[ColQuantity]], Err: errors.New("not an integer")}
		}
		tx.Quantity = int(q)
		if tx.Total, err = num(total.Name, total.Index); err != nil {
			return nil, err
		}
		if tx.GrossIncome, err = num(ColGrossIncome, idx[ColGrossIncome]); err != nil {
			return nil, err
		}
		if tx.Rating, err = num(ColRating, idx[ColRating]); err != nil {
			return nil, err
		}
		ds.Transactions = append(ds.Transactions, tx)
	}
	return ds, nil
}

// ParseDate parses a calendar date and returns it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if IsMissing(v) {
		return time.Time{}, errors.New("missing date")
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// ParseNumber parses a decimal number, ignoring surrounding spaces and
// comma thousands separators.
func ParseNumber(s string) (float64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if IsMissing(raw) {
		return 0, errors.New("missing value")
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}
