package store

import (
	"errors"
	"time"

	"librarian/pkg/domain"
)

var (
	// ErrAvailabilityConflict is returned when an availability delta would
	// push available_copies below zero or above total_copies.
	ErrAvailabilityConflict = errors.New("availability update would violate copy bounds")
	// ErrNoRowsUpdated is returned when an update matched no row.
	ErrNoRowsUpdated = errors.New("no matching row updated")
)

// Store defines the persistence operations the circulation core depends on.
type Store interface {
	// books
	GetBookByID(id int64) (domain.Book, bool, error)
	GetBookByISBN(isbn string) (domain.Book, bool, error)
	ListBooks() ([]domain.Book, error)
	InsertBook(b domain.Book) (domain.Book, error)
	// UpdateAvailability adjusts available_copies by delta, rejecting any
	// change that would leave the count outside [0, total_copies].
	UpdateAvailability(bookID int64, delta int) error

	// borrow records
	InsertBorrowRecord(rec domain.BorrowRecord) error
	// SetReturnDate closes the active record for (patron, book). At most one
	// such record exists at a time; the engine checks before inserting.
	SetReturnDate(patronID string, bookID int64, returned time.Time) error
	CountActiveBorrows(patronID string) (int, error)
	// ActiveLoans returns the patron's open loans joined with book data,
	// each tagged overdue as of asOf.
	ActiveLoans(patronID string, asOf time.Time) ([]domain.Loan, error)
	// BorrowHistory returns all of the patron's records, newest borrow first.
	BorrowHistory(patronID string) ([]domain.HistoryRecord, error)
	// OverdueLoans returns every open loan past its due date as of asOf.
	OverdueLoans(asOf time.Time) ([]domain.Loan, error)
}
