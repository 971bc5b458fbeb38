package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
)

// Summary bundles every aggregate the charts and the questions read.
// It is computed once and never modified afterwards.
type Summary struct {
	TotalColumn        string        `json:"total_column"`
	Rows               int           `json:"rows"`
	Branches           []BranchStat  `json:"branch_stats"`
	BranchRevenue      []GroupTotal  `json:"branch_revenue"`
	Daily              []DailyTotal  `json:"daily_sales"`
	CustomerTypes      []GroupCount  `json:"customer_types"`
	CustomerTypeSpend  []GroupMean   `json:"customer_type_spend"`
	Payments           []GroupCount  `json:"payments"`
	ProductLineRatings []GroupMean   `json:"product_line_ratings"`
	GrossIncome        []GroupValues `json:"-"`
	Corr               CorrMatrix    `json:"correlation"`

	// Per-row series for the distribution and scatter charts.
	Totals     []float64 `json:"-"`
	UnitPrices []float64 `json:"-"`
	Quantities []float64 `json:"-"`
}

// TopPairsShown is how many correlation pairs CorrelationText lists.
const TopPairsShown = 3

// ErrNoTransactions is returned when a dataset has no rows to aggregate.
var ErrNoTransactions = errors.New("dataset has no transactions")

// Summarize runs every aggregation over the normalized dataset.
func Summarize(ds *dataset.Dataset) (*Summary, error) {
	if ds == nil || len(ds.Transactions) == 0 {
		return nil, ErrNoTransactions
	}
	txs := ds.Transactions
	s := &Summary{
		TotalColumn:        ds.Total.Name,
		Rows:               len(txs),
		Branches:           BranchStats(txs),
		BranchRevenue:      BranchRevenue(txs),
		Daily:              DailySales(txs),
		CustomerTypes:      CustomerTypeCounts(txs),
		CustomerTypeSpend:  CustomerTypeSpend(txs),
		Payments:           PaymentCounts(txs),
		ProductLineRatings: ProductLineRatings(txs),
		GrossIncome:        GrossIncomeByProductLine(txs),
		Corr:               Correlation(txs, ds.Total.Name),
		Totals:             make([]float64, len(txs)),
		UnitPrices:         make([]float64, len(txs)),
		Quantities:         make([]float64, len(txs)),
	}
	for i, tx := range txs {
		s.Totals[i] = tx.Total
		s.UnitPrices[i] = tx.UnitPrice
		s.Quantities[i] = float64(tx.Quantity)
	}
	return s, nil
}

// BranchStatsText renders the branch statistics table.
func (s *Summary) BranchStatsText() string {
	var b strings.Builder
	b.WriteString("Branch Statistics:\n")
	fmt.Fprintf(&b, "%-10s %12s %12s %12s %12s\n", "Branch", "mean", "median", "min", "max")
	for _, st := range s.Branches {
		fmt.Fprintf(&b, "%-10s %12.6f %12.6f %12.6f %12.6f\n", st.Branch, st.Mean, st.Median, st.Min, st.Max)
	}
	return b.String()
}

// CorrelationText renders the correlation matrix as a fixed-width grid.
func (s *Summary) CorrelationText() string {
	var b strings.Builder
	b.WriteString("Correlation Matrix:\n")
	fmt.Fprintf(&b, "%-14s", "")
	for _, c := range s.Corr.Columns {
		fmt.Fprintf(&b, " %13s", c)
	}
	b.WriteString("\n")
	for i, c := range s.Corr.Columns {
		fmt.Fprintf(&b, "%-14s", c)
		for _, v := range s.Corr.Values[i] {
			fmt.Fprintf(&b, " %13.3f", v)
		}
		b.WriteString("\n")
	}
	if pairs := s.Corr.TopPairs(TopPairsShown); len(pairs) > 0 {
		b.WriteString("\nTop pairs by |r|:\n")
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.A, p.B, p.R)
		}
	}
	return b.String()
}
