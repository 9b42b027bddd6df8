package domain

import "time"

type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// BorrowRecord is one loan of one book to one patron. It stays active until
// ReturnDate is set and is never deleted afterwards.
type BorrowRecord struct {
	PatronID   string     `json:"patron_id"`
	BookID     int64      `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Loan is an active borrow record joined with its book.
type Loan struct {
	PatronID   string
	BookID     int64
	Title      string
	Author     string
	BorrowDate time.Time
	DueDate    time.Time
	IsOverdue  bool
}

// HistoryRecord is one row of a patron's full borrowing history, returned
// and active loans alike.
type HistoryRecord struct {
	BookID     int64
	Title      string
	Author     string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

type FeeStatus string

const (
	FeeNotOverdue     FeeStatus = "not_overdue"
	FeeOverdue        FeeStatus = "overdue"
	FeeInvalidPatron  FeeStatus = "invalid_patron"
	FeeBookNotFound   FeeStatus = "book_not_found"
	FeeNoActiveBorrow FeeStatus = "no_active_borrow"
)

// FeeResult is never persisted; it is recomputed from the borrow record and
// the current time on every request.
type FeeResult struct {
	FeeAmount   float64   `json:"fee_amount"`
	DaysOverdue int       `json:"days_overdue"`
	Status      FeeStatus `json:"status"`
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	// OutcomePartial marks a multi-step operation whose primary write landed
	// but whose follow-up write did not.
	OutcomePartial Outcome = "partial"
)

// Codes carried by failed or partial outcomes.
const (
	CodeInvalidPatron     = "invalid_patron"
	CodeInvalidBook       = "invalid_book"
	CodeBookNotFound      = "book_not_found"
	CodeNotAvailable      = "not_available"
	CodeLimitExceeded     = "limit_exceeded"
	CodeNoActiveBorrow    = "no_active_borrow"
	CodeDuplicateISBN     = "duplicate_isbn"
	CodeStoreError        = "store_error"
	CodeAvailabilityStale = "availability_not_updated"
)

// OpResult is the outcome every circulation operation reports instead of an
// error: a tag, a machine-readable code, and a human-readable message.
type OpResult struct {
	Outcome Outcome `json:"outcome"`
	Code    string  `json:"code,omitempty"`
	Message string  `json:"message"`
}

func (r OpResult) Succeeded() bool { return r.Outcome == OutcomeSuccess }

func Success(message string) OpResult {
	return OpResult{Outcome: OutcomeSuccess, Message: message}
}

func Failure(code, message string) OpResult {
	return OpResult{Outcome: OutcomeFailure, Code: code, Message: message}
}

func Partial(code, message string) OpResult {
	return OpResult{Outcome: OutcomePartial, Code: code, Message: message}
}

// ReturnResult carries the fee that was accrued up to the moment the return
// was recorded.
type ReturnResult struct {
	OpResult
	Fee FeeResult `json:"fee"`
}

type PaymentResult struct {
	Succeeded     bool   `json:"succeeded"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type RefundResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// LoanStatus is one currently borrowed book in a patron report, with its
// overdue state as of the report time.
type LoanStatus struct {
	BookID      int64   `json:"book_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	BorrowDate  string  `json:"borrow_date"`
	DueDate     string  `json:"due_date"`
	DaysOverdue int     `json:"days_overdue"`
	LateFee     float64 `json:"late_fee"`
}

type HistoryEntry struct {
	BookID     int64   `json:"book_id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
}

type PatronReport struct {
	PatronID               string         `json:"patron_id"`
	CurrentlyBorrowedCount int            `json:"currently_borrowed_count"`
	CurrentlyBorrowed      []LoanStatus   `json:"currently_borrowed"`
	TotalLateFeesOwed      float64        `json:"total_late_fees_owed"`
	BorrowingHistory       []HistoryEntry `json:"borrowing_history"`
}
