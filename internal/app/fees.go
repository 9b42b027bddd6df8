package app

import (
	"math"
	"time"

	"librarian/pkg/domain"
)

// Late fee schedule: $0.50/day for the first week overdue, $1.00/day after
// that, capped at $15.00 per book.
const (
	feeTierDays       = 7
	feeFirstTierRate  = 0.50
	feeSecondTierRate = 1.00
	maxFeePerBook     = 15.00
)

// feeForDueDate computes the late fee owed on a loan with the given due date
// as of now. It is the single fee implementation: return processing, the
// standalone fee lookup, and status reporting all go through it.
func feeForDueDate(due, now time.Time) domain.FeeResult {
	days := domain.DaysOverdue(due, now)
	if days == 0 {
		return domain.FeeResult{Status: domain.FeeNotOverdue}
	}
	return domain.FeeResult{
		FeeAmount:   lateFee(days),
		DaysOverdue: days,
		Status:      domain.FeeOverdue,
	}
}

func lateFee(daysOverdue int) float64 {
	if daysOverdue <= 0 {
		return 0
	}
	firstWeek := math.Min(float64(daysOverdue), feeTierDays) * feeFirstTierRate
	after := math.Max(float64(daysOverdue-feeTierDays), 0) * feeSecondTierRate
	return round2(math.Min(firstWeek+after, maxFeePerBook))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LateFee reports the current fee state for a patron's active loan of a
// book, resolving the record from stored state.
func (a *App) LateFee(patronID string, bookID int64) domain.FeeResult {
	if !validPatronID(patronID) {
		return domain.FeeResult{Status: domain.FeeInvalidPatron}
	}
	_, found, err := a.store.GetBookByID(bookID)
	if err != nil {
		storeFailure("get book for fee lookup", err)
		return domain.FeeResult{Status: domain.FeeBookNotFound}
	}
	if !found {
		return domain.FeeResult{Status: domain.FeeBookNotFound}
	}
	now := a.now()
	loans, err := a.store.ActiveLoans(patronID, now)
	if err != nil {
		storeFailure("list active loans for fee lookup", err)
		return domain.FeeResult{Status: domain.FeeNoActiveBorrow}
	}
	for _, l := range loans {
		if l.BookID == bookID {
			return feeForDueDate(l.DueDate, now)
		}
	}
	return domain.FeeResult{Status: domain.FeeNoActiveBorrow}
}
