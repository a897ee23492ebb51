package dto

import "github.com/SscSPs/school_fees_ledger/internal/core/domain"

// BalanceQuery selects the period treated as current. Both fields empty means
// the academic calendar's current period.
type BalanceQuery struct {
	AcademicYear string `form:"academicYear"`
	Term         string `form:"term" binding:"required_with=AcademicYear"`
}

// Period returns the requested period, or nil when none was given.
func (q BalanceQuery) Period() *domain.Period {
	if q.AcademicYear == "" && q.Term == "" {
		return nil
	}
	return &domain.Period{AcademicYear: q.AcademicYear, Term: q.Term}
}
