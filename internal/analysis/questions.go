package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/shopspring/decimal"
)

// Customer types compared by the member-spend question.
const (
	CustomerMember = "Member"
	CustomerNormal = "Normal"
)

// UndefinedError indicates that an answer cannot be derived from the data.
type UndefinedError struct {
	Question string
	Reason   string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s is undefined: %s", e.Question, e.Reason)
}

// Answers are the five fixed questions asked of every dataset.
type Answers struct {
	TopBranch          string          `json:"top_branch"`
	TopBranchRevenue   decimal.Decimal `json:"top_branch_revenue"`
	MembersSpendMore   bool            `json:"members_spend_more"`
	MemberMean         float64         `json:"member_mean"`
	NormalMean         float64         `json:"normal_mean"`
	OtherCustomerTypes []string        `json:"other_customer_types,omitempty"`
	TopPayment         string          `json:"top_payment"`
	TopPaymentCount    int             `json:"top_payment_count"`
	TopProductLine     string          `json:"top_product_line"`
	TopProductRating   float64         `json:"top_product_rating"`
	PriceQuantityCorr  float64         `json:"price_quantity_corr"`
}

// Answer derives the answers from already computed aggregates.
// Ties go to the group seen first in the data.
func Answer(s *Summary) (*Answers, error) {
	if s == nil || s.Rows == 0 {
		return nil, ErrNoTransactions
	}
	a := &Answers{}

	br := argmax(len(s.BranchRevenue), func(i, j int) bool {
		return s.BranchRevenue[i].Total.GreaterThan(s.BranchRevenue[j].Total)
	})
	if br < 0 {
		return nil, &UndefinedError{Question: "Q1", Reason: "no branches"}
	}
	a.TopBranch = s.BranchRevenue[br].Key
	a.TopBranchRevenue = s.BranchRevenue[br].Total

	var member, normal *GroupMean
	for i := range s.CustomerTypeSpend {
		g := &s.CustomerTypeSpend[i]
		switch g.Key {
		case CustomerMember:
			member = g
		case CustomerNormal:
			normal = g
		default:
			a.OtherCustomerTypes = append(a.OtherCustomerTypes, g.Key)
		}
	}
	if member == nil || normal == nil {
		missing := CustomerMember
		if member != nil {
			missing = CustomerNormal
		}
		return nil, &UndefinedError{Question: "Q2", Reason: fmt.Sprintf("no rows with Customer type %q", missing)}
	}
	a.MemberMean, a.NormalMean = member.Mean, normal.Mean
	a.MembersSpendMore = member.Mean > normal.Mean

	pm := argmax(len(s.Payments), func(i, j int) bool { return s.Payments[i].Count > s.Payments[j].Count })
	if pm < 0 {
		return nil, &UndefinedError{Question: "Q3", Reason: "no payment values"}
	}
	a.TopPayment = s.Payments[pm].Key
	a.TopPaymentCount = s.Payments[pm].Count

	pl := argmax(len(s.ProductLineRatings), func(i, j int) bool {
		return s.ProductLineRatings[i].Mean > s.ProductLineRatings[j].Mean
	})
	if pl < 0 {
		return nil, &UndefinedError{Question: "Q4", Reason: "no product lines"}
	}
	a.TopProductLine = s.ProductLineRatings[pl].Key
	a.TopProductRating = s.ProductLineRatings[pl].Mean

	r, err := s.Corr.Value(dataset.ColUnitPrice, dataset.ColQuantity)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(r) {
		return nil, &UndefinedError{Question: "Q5", Reason: "unit price or quantity has no variance"}
	}
	a.PriceQuantityCorr = r
	return a, nil
}

// Text renders the answers block.
func (a *Answers) Text() string {
	var b strings.Builder
	b.WriteString("Advanced Analysis Answers:\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Q1: Highest revenue branch: %s\n", a.TopBranch)
	fmt.Fprintf(&b, "Q2: Members spend more? %s\n", yesNo(a.MembersSpendMore))
	fmt.Fprintf(&b, "Q3: Most used payment method: %s\n", a.TopPayment)
	fmt.Fprintf(&b, "Q4: Highest rated product line: %s\n", a.TopProductLine)
	fmt.Fprintf(&b, "Q5: Correlation between unit price and quantity: %.3f\n", a.PriceQuantityCorr)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
