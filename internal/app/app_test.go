package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarian/internal/payment"
	"librarian/internal/store"
	"librarian/pkg/domain"
)

var testNow = time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)

type fakeGateway struct {
	payCalls    int
	refundCalls int
	payResp     payment.PaymentResponse
	payErr      error
	refundResp  payment.RefundResponse
	refundErr   error

	lastPatronID    string
	lastAmount      float64
	lastDescription string
	lastTxnID       string
	lastRefund      float64
}

func (g *fakeGateway) ProcessPayment(patronID string, amount float64, description string) (payment.PaymentResponse, error) {
	g.payCalls++
	g.lastPatronID = patronID
	g.lastAmount = amount
	g.lastDescription = description
	return g.payResp, g.payErr
}

func (g *fakeGateway) RefundPayment(transactionID string, amount float64) (payment.RefundResponse, error) {
	g.refundCalls++
	g.lastTxnID = transactionID
	g.lastRefund = amount
	return g.refundResp, g.refundErr
}

func newTestApp(t *testing.T) (*App, *store.MemoryStore, *fakeGateway) {
	t.Helper()
	st := store.NewMemoryStore()
	gw := &fakeGateway{}
	a, err := New(Config{Store: st, Gateway: gw, Now: func() time.Time { return testNow }})
	require.NoError(t, err)
	return a, st, gw
}

func newAppWithStore(t *testing.T, st store.Store, gw *fakeGateway) *App {
	t.Helper()
	a, err := New(Config{Store: st, Gateway: gw, Now: func() time.Time { return testNow }})
	require.NoError(t, err)
	return a
}

func addTestBook(t *testing.T, st *store.MemoryStore, title, author, isbn string, copies int) domain.Book {
	t.Helper()
	b, err := st.InsertBook(domain.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     copies,
		AvailableCopies: copies,
	})
	require.NoError(t, err)
	return b
}

// seedLoan inserts an active borrow record with dates relative to testNow.
func seedLoan(t *testing.T, st *store.MemoryStore, patronID string, bookID int64, borrowedDaysAgo, dueDaysAgo int) {
	t.Helper()
	err := st.InsertBorrowRecord(domain.BorrowRecord{
		PatronID:   patronID,
		BookID:     bookID,
		BorrowDate: testNow.AddDate(0, 0, -borrowedDaysAgo),
		DueDate:    testNow.AddDate(0, 0, -dueDaysAgo),
	})
	require.NoError(t, err)
}

// failingStore injects write failures to exercise the partial-outcome paths.
type failingStore struct {
	store.Store
	failInsertRecord bool
	failAvailability bool
}

func (f *failingStore) InsertBorrowRecord(rec domain.BorrowRecord) error {
	if f.failInsertRecord {
		return errors.New("insert failed")
	}
	return f.Store.InsertBorrowRecord(rec)
}

func (f *failingStore) UpdateAvailability(bookID int64, delta int) error {
	if f.failAvailability {
		return errors.New("update failed")
	}
	return f.Store.UpdateAvailability(bookID, delta)
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Gateway: &fakeGateway{}}); err == nil {
		t.Fatalf("expected error without store")
	}
	if _, err := New(Config{Store: store.NewMemoryStore()}); err == nil {
		t.Fatalf("expected error without gateway")
	}
}
