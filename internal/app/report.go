package app

import (
	"fmt"

	"librarian/pkg/domain"
)

// PatronStatus aggregates a patron's current loans, total fees owed, and
// full borrowing history into one report.
func (a *App) PatronStatus(patronID string) (domain.PatronReport, error) {
	if !validPatronID(patronID) {
		return domain.PatronReport{}, ErrInvalidPatronID
	}
	now := a.now()
	loans, err := a.store.ActiveLoans(patronID, now)
	if err != nil {
		return domain.PatronReport{}, fmt.Errorf("active loans: %w", err)
	}
	current := make([]domain.LoanStatus, 0, len(loans))
	var total float64
	for _, l := range loans {
		fee := feeForDueDate(l.DueDate, now)
		total += fee.FeeAmount
		current = append(current, domain.LoanStatus{
			BookID:      l.BookID,
			Title:       l.Title,
			Author:      l.Author,
			BorrowDate:  l.BorrowDate.Format(dateLayout),
			DueDate:     l.DueDate.Format(dateLayout),
			DaysOverdue: fee.DaysOverdue,
			LateFee:     fee.FeeAmount,
		})
	}
	history, err := a.store.BorrowHistory(patronID)
	if err != nil {
		return domain.PatronReport{}, fmt.Errorf("borrow history: %w", err)
	}
	entries := make([]domain.HistoryEntry, 0, len(history))
	for _, h := range history {
		var returned *string
		if h.ReturnDate != nil {
			s := h.ReturnDate.Format(dateLayout)
			returned = &s
		}
		entries = append(entries, domain.HistoryEntry{
			BookID:     h.BookID,
			Title:      h.Title,
			Author:     h.Author,
			BorrowDate: h.BorrowDate.Format(dateLayout),
			DueDate:    h.DueDate.Format(dateLayout),
			ReturnDate: returned,
		})
	}
	return domain.PatronReport{
		PatronID:               patronID,
		CurrentlyBorrowedCount: len(current),
		CurrentlyBorrowed:      current,
		// Each loan's fee is capped at $15.00 on its own; the sum is not
		// re-capped.
		TotalLateFeesOwed: round2(total),
		BorrowingHistory:  entries,
	}, nil
}
