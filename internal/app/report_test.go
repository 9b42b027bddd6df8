package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatronStatusInvalidID(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, err := a.PatronStatus("12a456")
	assert.ErrorIs(t, err, ErrInvalidPatronID)
}

func TestPatronStatusAggregates(t *testing.T) {
	a, st, _ := newTestApp(t)
	overdueBook := addTestBook(t, st, "Clean Code", "Robert C. Martin", "9780132350884", 1)
	currentBook := addTestBook(t, st, "Refactoring", "Martin Fowler", "9780134757599", 1)
	returnedBook := addTestBook(t, st, "The Go Programming Language", "Alan Donovan", "9780134190440", 1)

	// Overdue by 10 days: fee $6.50.
	seedLoan(t, st, "123456", overdueBook.ID, 24, 10)
	// Current, due in 10 days.
	seedLoan(t, st, "123456", currentBook.ID, 4, -10)
	// Returned long ago.
	returned := testNow.AddDate(0, 0, -30)
	seedLoan(t, st, "123456", returnedBook.ID, 40, 26)
	require.NoError(t, st.SetReturnDate("123456", returnedBook.ID, returned))

	report, err := a.PatronStatus("123456")
	require.NoError(t, err)

	assert.Equal(t, "123456", report.PatronID)
	assert.Equal(t, 2, report.CurrentlyBorrowedCount)
	require.Len(t, report.CurrentlyBorrowed, 2)
	assert.InDelta(t, 6.50, report.TotalLateFeesOwed, 1e-9)

	// Active loans come back oldest borrow first.
	first := report.CurrentlyBorrowed[0]
	assert.Equal(t, overdueBook.ID, first.BookID)
	assert.Equal(t, "Clean Code", first.Title)
	assert.Equal(t, 10, first.DaysOverdue)
	assert.InDelta(t, 6.50, first.LateFee, 1e-9)
	assert.Equal(t, testNow.AddDate(0, 0, -24).Format("2006-01-02"), first.BorrowDate)
	assert.Equal(t, testNow.AddDate(0, 0, -10).Format("2006-01-02"), first.DueDate)

	second := report.CurrentlyBorrowed[1]
	assert.Zero(t, second.DaysOverdue)
	assert.Zero(t, second.LateFee)

	// History holds all three records, newest borrow first, with dates
	// normalized and return_date only on the closed one.
	require.Len(t, report.BorrowingHistory, 3)
	assert.Equal(t, currentBook.ID, report.BorrowingHistory[0].BookID)
	assert.Equal(t, overdueBook.ID, report.BorrowingHistory[1].BookID)
	assert.Equal(t, returnedBook.ID, report.BorrowingHistory[2].BookID)
	assert.Nil(t, report.BorrowingHistory[0].ReturnDate)
	require.NotNil(t, report.BorrowingHistory[2].ReturnDate)
	assert.Equal(t, returned.Format("2006-01-02"), *report.BorrowingHistory[2].ReturnDate)
}

func TestPatronStatusTotalNotRecapped(t *testing.T) {
	// Two loans each capped at $15.00; the summed total is not re-capped.
	a, st, _ := newTestApp(t)
	b1 := addTestBook(t, st, "Book One", "Author", "9780000000001", 1)
	b2 := addTestBook(t, st, "Book Two", "Author", "9780000000002", 1)
	seedLoan(t, st, "123456", b1.ID, 54, 40)
	seedLoan(t, st, "123456", b2.ID, 54, 40)

	report, err := a.PatronStatus("123456")
	require.NoError(t, err)
	for _, loan := range report.CurrentlyBorrowed {
		assert.InDelta(t, 15.00, loan.LateFee, 1e-9)
	}
	assert.InDelta(t, 30.00, report.TotalLateFeesOwed, 1e-9)
}

func TestPatronStatusEmpty(t *testing.T) {
	a, _, _ := newTestApp(t)
	report, err := a.PatronStatus("999999")
	require.NoError(t, err)
	assert.Zero(t, report.CurrentlyBorrowedCount)
	assert.Empty(t, report.CurrentlyBorrowed)
	assert.Empty(t, report.BorrowingHistory)
	assert.Zero(t, report.TotalLateFeesOwed)
}
