package store

import (
	"sort"
	"sync"
	"time"

	"librarian/pkg/domain"
)

// MemoryStore keeps the catalog and borrow records in-process. It preserves
// book insertion order and is used by tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	order   []int64
	books   map[int64]domain.Book
	records []domain.BorrowRecord
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[int64]domain.Book)}
}

func (m *MemoryStore) GetBookByID(id int64) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

func (m *MemoryStore) GetBookByISBN(isbn string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if b := m.books[id]; b.ISBN == isbn {
			return b, true, nil
		}
	}
	return domain.Book{}, false, nil
}

func (m *MemoryStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make([]domain.Book, 0, len(m.order))
	for _, id := range m.order {
		books = append(books, m.books[id])
	}
	return books, nil
}

func (m *MemoryStore) InsertBook(b domain.Book) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	m.books[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

func (m *MemoryStore) UpdateAvailability(bookID int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok {
		return ErrNoRowsUpdated
	}
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return ErrAvailabilityConflict
	}
	b.AvailableCopies = next
	m.books[bookID] = b
	return nil
}

func (m *MemoryStore) InsertBorrowRecord(rec domain.BorrowRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryStore) SetReturnDate(patronID string, bookID int64, returned time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		r := &m.records[i]
		if r.PatronID == patronID && r.BookID == bookID && r.ReturnDate == nil {
			t := returned
			r.ReturnDate = &t
			return nil
		}
	}
	return ErrNoRowsUpdated
}

func (m *MemoryStore) CountActiveBorrows(patronID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.records {
		if r.PatronID == patronID && r.ReturnDate == nil {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ActiveLoans(patronID string, asOf time.Time) ([]domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loans := []domain.Loan{}
	for _, r := range m.records {
		if r.PatronID != patronID || r.ReturnDate != nil {
			continue
		}
		loans = append(loans, m.loanFromRecord(r, asOf))
	}
	sort.SliceStable(loans, func(i, j int) bool { return loans[i].BorrowDate.Before(loans[j].BorrowDate) })
	return loans, nil
}

func (m *MemoryStore) BorrowHistory(patronID string) ([]domain.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := []domain.HistoryRecord{}
	for _, r := range m.records {
		if r.PatronID != patronID {
			continue
		}
		book := m.books[r.BookID]
		history = append(history, domain.HistoryRecord{
			BookID:     r.BookID,
			Title:      book.Title,
			Author:     book.Author,
			BorrowDate: r.BorrowDate,
			DueDate:    r.DueDate,
			ReturnDate: r.ReturnDate,
		})
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].BorrowDate.After(history[j].BorrowDate) })
	return history, nil
}

func (m *MemoryStore) OverdueLoans(asOf time.Time) ([]domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loans := []domain.Loan{}
	for _, r := range m.records {
		if r.ReturnDate != nil {
			continue
		}
		if loan := m.loanFromRecord(r, asOf); loan.IsOverdue {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (m *MemoryStore) loanFromRecord(r domain.BorrowRecord, asOf time.Time) domain.Loan {
	book := m.books[r.BookID]
	return domain.Loan{
		PatronID:   r.PatronID,
		BookID:     r.BookID,
		Title:      book.Title,
		Author:     book.Author,
		BorrowDate: r.BorrowDate,
		DueDate:    r.DueDate,
		IsOverdue:  domain.DaysOverdue(r.DueDate, asOf) > 0,
	}
}
