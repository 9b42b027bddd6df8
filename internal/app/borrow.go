package app

import (
	"fmt"
	"log/slog"

	"librarian/pkg/domain"
)

// Borrow lends a book to a patron for the standard loan period. The two
// writes (record insert, availability decrement) are not atomic; a decrement
// failure after a successful insert is reported as a partial outcome so the
// caller can distinguish it from "nothing happened".
func (a *App) Borrow(patronID string, bookID int64) domain.OpResult {
	if !validPatronID(patronID) {
		return domain.Failure(domain.CodeInvalidPatron, msgInvalidPatron)
	}
	book, found, err := a.store.GetBookByID(bookID)
	if err != nil {
		return storeFailure("get book", err)
	}
	if !found {
		return domain.Failure(domain.CodeBookNotFound, "Book not found.")
	}
	if book.AvailableCopies <= 0 {
		return domain.Failure(domain.CodeNotAvailable, "This book is currently not available.")
	}
	active, err := a.store.CountActiveBorrows(patronID)
	if err != nil {
		return storeFailure("count active borrows", err)
	}
	// Historical quirk kept on purpose: a patron holding exactly 5 books may
	// still take a 6th; only 6 or more blocks the borrow.
	if active > maxActiveLoans {
		return domain.Failure(domain.CodeLimitExceeded, "You have reached the maximum borrowing limit of 5 books.")
	}
	now := a.now()
	due := now.AddDate(0, 0, loanPeriodDays)
	rec := domain.BorrowRecord{
		PatronID:   patronID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    due,
	}
	if err := a.store.InsertBorrowRecord(rec); err != nil {
		slog.Error("borrow record insert failed", "patron_id", patronID, "book_id", bookID, "err", err)
		return domain.Failure(domain.CodeStoreError, "Database error occurred while creating borrow record.")
	}
	if err := a.store.UpdateAvailability(bookID, -1); err != nil {
		slog.Error("availability decrement failed after borrow insert", "book_id", bookID, "err", err)
		return domain.Partial(domain.CodeAvailabilityStale, "Borrow recorded but failed to update book availability.")
	}
	return domain.Success(fmt.Sprintf("Successfully borrowed %q. Due date: %s.", book.Title, due.Format(dateLayout)))
}

// Return closes the active loan for (patron, book) and reports any late fee
// accrued up to now.
func (a *App) Return(patronID string, bookID int64) domain.ReturnResult {
	fail := func(code, msg string) domain.ReturnResult {
		return domain.ReturnResult{OpResult: domain.Failure(code, msg)}
	}
	if !validPatronID(patronID) {
		return fail(domain.CodeInvalidPatron, msgInvalidPatron)
	}
	book, found, err := a.store.GetBookByID(bookID)
	if err != nil {
		return domain.ReturnResult{OpResult: storeFailure("get book", err)}
	}
	if !found {
		return fail(domain.CodeBookNotFound, "Book not found.")
	}
	now := a.now()
	loans, err := a.store.ActiveLoans(patronID, now)
	if err != nil {
		return domain.ReturnResult{OpResult: storeFailure("list active loans", err)}
	}
	var active *domain.Loan
	for i := range loans {
		if loans[i].BookID == bookID {
			active = &loans[i]
			break
		}
	}
	if active == nil {
		return fail(domain.CodeNoActiveBorrow, "No active borrow record for this patron and book.")
	}
	// Fee must be computed while the record is still active; the store's
	// active-loan query stops returning it once the return date is set.
	fee := feeForDueDate(active.DueDate, now)
	if err := a.store.SetReturnDate(patronID, bookID, now); err != nil {
		slog.Error("return date update failed", "patron_id", patronID, "book_id", bookID, "err", err)
		return fail(domain.CodeStoreError, "Database error occurred while updating return record.")
	}
	result := domain.ReturnResult{Fee: fee}
	refreshed, found, err := a.store.GetBookByID(bookID)
	switch {
	case err != nil || !found:
		slog.Warn("book refresh failed after return, availability not adjusted", "book_id", bookID, "err", err)
	case refreshed.AvailableCopies < refreshed.TotalCopies:
		if err := a.store.UpdateAvailability(bookID, +1); err != nil {
			slog.Error("availability increment failed after return", "book_id", bookID, "err", err)
			result.OpResult = domain.Partial(domain.CodeAvailabilityStale, "Return recorded but failed to update book availability.")
			return result
		}
	}
	// Counts already at the maximum mean a stale counter; skipping the
	// increment keeps available_copies within total_copies.
	if fee.DaysOverdue > 0 && fee.FeeAmount > 0 {
		result.OpResult = domain.Success(fmt.Sprintf("Book %q returned successfully. Late fee: $%.2f for %d day(s) overdue.", book.Title, fee.FeeAmount, fee.DaysOverdue))
	} else {
		result.OpResult = domain.Success(fmt.Sprintf("Book %q returned successfully. No late fee.", book.Title))
	}
	return result
}
