package domain

import "github.com/shopspring/decimal"

// LearnerBalance is the fee position of one learner.
// TotalBalance is signed: a negative value is a credit.
type LearnerBalance struct {
	LearnerID            string          `json:"learnerId"`
	Period               Period          `json:"period"`
	CurrentTermFees      decimal.Decimal `json:"currentTermFees"`
	CurrentTermPaid      decimal.Decimal `json:"currentTermPaid"`
	CurrentTermBalance   decimal.Decimal `json:"currentTermBalance"`
	TotalAccumulatedFees decimal.Decimal `json:"totalAccumulatedFees"`
	TotalPaid            decimal.Decimal `json:"totalPaid"`
	TotalBalance         decimal.Decimal `json:"totalBalance"`
}

// PreviousBalance is the part of TotalBalance carried from earlier periods.
func (b LearnerBalance) PreviousBalance() decimal.Decimal {
	return b.TotalBalance.Sub(b.CurrentTermBalance)
}

// RelevantBalance sums the components a reminder is configured to include.
func (b LearnerBalance) RelevantBalance(includeCurrent, includePrevious bool) decimal.Decimal {
	relevant := decimal.Zero
	if includeCurrent {
		relevant = relevant.Add(b.CurrentTermBalance)
	}
	if includePrevious {
		relevant = relevant.Add(b.PreviousBalance())
	}
	return relevant
}

// FoldLearnerBalance derives a learner's balance from persisted rows.
// Fees are net of discount over non-cancelled invoices; payments count every
// transaction, including legacy ones and payments against cancelled invoices.
// Current term figures restrict the same fold to period: invoices by their
// period, transactions by their own period tag.
func FoldLearnerBalance(learnerID string, invoices []Invoice, txns []Transaction, period Period) LearnerBalance {
	b := LearnerBalance{
		LearnerID:            learnerID,
		Period:               period,
		CurrentTermFees:      decimal.Zero,
		CurrentTermPaid:      decimal.Zero,
		TotalAccumulatedFees: decimal.Zero,
		TotalPaid:            decimal.Zero,
	}

	for _, inv := range invoices {
		if inv.IsCancelled() {
			continue
		}
		net := inv.NetAmount()
		b.TotalAccumulatedFees = b.TotalAccumulatedFees.Add(net)
		if inv.Period == period {
			b.CurrentTermFees = b.CurrentTermFees.Add(net)
		}
	}

	for _, txn := range txns {
		b.TotalPaid = b.TotalPaid.Add(txn.Amount)
		if txn.Period == period {
			b.CurrentTermPaid = b.CurrentTermPaid.Add(txn.Amount)
		}
	}

	b.CurrentTermBalance = b.CurrentTermFees.Sub(b.CurrentTermPaid)
	b.TotalBalance = b.TotalAccumulatedFees.Sub(b.TotalPaid)
	return b
}

// GradeBalanceReport aggregates learner balances of a grade.
type GradeBalanceReport struct {
	GradeID      string           `json:"gradeId"`
	Period       Period           `json:"period"`
	Learners     []LearnerBalance `json:"learners"`
	TotalFees    decimal.Decimal  `json:"totalFees"`
	TotalPaid    decimal.Decimal  `json:"totalPaid"`
	TotalBalance decimal.Decimal  `json:"totalBalance"`
}

// Add folds one learner into the report totals.
func (r *GradeBalanceReport) Add(b LearnerBalance) {
	r.Learners = append(r.Learners, b)
	r.TotalFees = r.TotalFees.Add(b.TotalAccumulatedFees)
	r.TotalPaid = r.TotalPaid.Add(b.TotalPaid)
	r.TotalBalance = r.TotalBalance.Add(b.TotalBalance)
}
