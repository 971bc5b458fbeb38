package analysis

import (
	"sort"
	"time"

	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/shopspring/decimal"
)

// BranchStat is the total-value summary of one branch.
type BranchStat struct {
	Branch string `json:"branch"`
	NumSummary
}

// GroupTotal is an exact sum of total value for one key.
type GroupTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// DailyTotal is the summed total value of one calendar date.
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// GroupMean is the mean of a numeric column for one key.
type GroupMean struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// GroupCount is the number of rows carrying one key.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupValues holds every value of a numeric column for one key.
type GroupValues struct {
	Key    string    `json:"key"`
	Values []float64 `json:"values"`
}

// BranchStats groups by branch and summarizes total value. The result is sorted by branch name.
func BranchStats(txs []dataset.Transaction) []BranchStat {
	g := newOrdered[[]float64]()
	for _, tx := range txs {
		v := g.at(tx.Branch)
		*v = append(*v, tx.Total)
	}
	out := make([]BranchStat, 0, g.len())
	for i, k := range g.keys {
		out = append(out, BranchStat{Branch: k, NumSummary: summarize(g.acc[i])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}

// BranchRevenue sums total value per branch, in first-seen order.
func BranchRevenue(txs []dataset.Transaction) []GroupTotal {
	return sumBy(txs, func(tx dataset.Transaction) string { return tx.Branch })
}

// DailySales sums total value per date. Dates are strictly ascending.
func DailySales(txs []dataset.Transaction) []DailyTotal {
	byDay := map[time.Time]decimal.Decimal{}
	for _, tx := range txs {
		byDay[tx.Date] = byDay[tx.Date].Add(decimal.NewFromFloat(tx.Total))
	}
	out := make([]DailyTotal, 0, len(byDay))
	for d, sum := range byDay {
		out = append(out, DailyTotal{Date: d, Total: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ProductLineRatings averages Rating per product line, in first-seen order.
func ProductLineRatings(txs []dataset.Transaction) []GroupMean {
	return meanBy(txs,
		func(tx dataset.Transaction) string { return tx.ProductLine },
		func(tx dataset.Transaction) float64 { return tx.Rating })
}

// CustomerTypeSpend averages total value per customer type, in first-seen order.
func CustomerTypeSpend(txs []dataset.Transaction) []GroupMean {
	return meanBy(txs,
		func(tx dataset.Transaction) string { return tx.CustomerType },
		func(tx dataset.Transaction) float64 { return tx.Total })
}

// GrossIncomeByProductLine collects gross income samples per product line, in first-seen order.
func GrossIncomeByProductLine(txs []dataset.Transaction) []GroupValues {
	g := newOrdered[[]float64]()
	for _, tx := range txs {
		v := g.at(tx.ProductLine)
		*v = append(*v, tx.GrossIncome)
	}
	out := make([]GroupValues, 0, g.len())
	for i, k := range g.keys {
		out = append(out, GroupValues{Key: k, Values: g.acc[i]})
	}
	return out
}

// CustomerTypeCounts counts rows per customer type, in first-seen order.
func CustomerTypeCounts(txs []dataset.Transaction) []GroupCount {
	return countBy(txs, func(tx dataset.Transaction) string { return tx.CustomerType })
}

// PaymentCounts counts rows per payment method, in first-seen order.
func PaymentCounts(txs []dataset.Transaction) []GroupCount {
	return countBy(txs, func(tx dataset.Transaction) string { return tx.Payment })
}

func sumBy(txs []dataset.Transaction, key func(dataset.Transaction) string) []GroupTotal {
	g := newOrdered[decimal.Decimal]()
	for _, tx := range txs {
		v := g.at(key(tx))
		*v = v.Add(decimal.NewFromFloat(tx.Total))
	}
	out := make([]GroupTotal, 0, g.len())
	for i, k := range g.keys {
		out = append(out, GroupTotal{Key: k, Total: g.acc[i]})
	}
	return out
}

func meanBy(txs []dataset.Transaction, key func(dataset.Transaction) string, val func(dataset.Transaction) float64) []GroupMean {
	type acc struct {
		sum float64
		n   int
	}
	g := newOrdered[acc]()
	for _, tx := range txs {
		a := g.at(key(tx))
		a.sum += val(tx)
		a.n++
	}
	out := make([]GroupMean, 0, g.len())
	for i, k := range g.keys {
		a := g.acc[i]
		out = append(out, GroupMean{Key: k, Mean: a.sum / float64(a.n), Count: a.n})
	}
	return out
}

func countBy(txs []dataset.Transaction, key func(dataset.Transaction) string) []GroupCount {
	g := newOrdered[int]()
	for _, tx := range txs {
		*g.at(key(tx))++
	}
	out := make([]GroupCount, 0, g.len())
	for i, k := range g.keys {
		out = append(out, GroupCount{Key: k, Count: g.acc[i]})
	}
	return out
}
