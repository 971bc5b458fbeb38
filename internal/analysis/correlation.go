package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/salescope/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// CorrelationColumns returns the analyzed numeric columns with the resolved total name.
func CorrelationColumns(totalName string) []string {
	return []string{dataset.ColUnitPrice, dataset.ColQuantity, totalName, dataset.ColGrossIncome, dataset.ColRating}
}

// Correlation computes the Pearson matrix over unit price, quantity, total,
// gross income and rating. Columns with zero variance produce NaN in their
// row and column, including the diagonal.
func Correlation(txs []dataset.Transaction, totalName string) CorrMatrix {
	series := [][]float64{
		make([]float64, len(txs)), make([]float64, len(txs)), make([]float64, len(txs)),
		make([]float64, len(txs)), make([]float64, len(txs)),
	}
	for i, tx := range txs {
		series[0][i] = tx.UnitPrice
		series[1][i] = float64(tx.Quantity)
		series[2][i] = tx.Total
		series[3][i] = tx.GrossIncome
		series[4][i] = tx.Rating
	}
	n := len(series)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		if !hasVariance(series[a]) {
			mat[a][a] = math.NaN()
		} else {
			mat[a][a] = 1
		}
		for b := a + 1; b < n; b++ {
			r := Pearson(series[a], series[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return CorrMatrix{Columns: CorrelationColumns(totalName), Values: mat}
}

// Pearson returns the linear correlation coefficient of x and y, clamped to [-1, 1].
// It returns NaN when either series has fewer than two points or no variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 || !hasVariance(x) || !hasVariance(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Value returns the coefficient for the named pair.
func (m CorrMatrix) Value(a, b string) (float64, error) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a && ia < 0 {
			ia = i
		}
		if c == b && ib < 0 {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN(), fmt.Errorf("correlation pair %q ~ %q not in matrix", a, b)
	}
	return m.Values[ia][ib], nil
}

// MarshalJSON encodes NaN coefficients as null.
func (m CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				vals[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}

// TopPairs lists off-diagonal pairs by descending |r|, skipping NaN.
func (m CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r := m.Values[i][j]; !math.IsNaN(r) {
				pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func hasVariance(vals []float64) bool {
	if len(vals) < 2 {
		return false
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return true
		}
	}
	return false
}
