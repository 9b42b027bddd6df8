package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"librarian/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&BookModel{}, &BorrowRecordModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// GetBookByID looks up a catalog entry by primary key.
func (s *GormStore) GetBookByID(id int64) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// GetBookByISBN looks up a catalog entry by its unique ISBN.
func (s *GormStore) GetBookByISBN(isbn string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "isbn = ?", isbn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// ListBooks returns the whole catalog in insertion order.
func (s *GormStore) ListBooks() ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

// InsertBook creates a catalog entry and returns it with its assigned ID.
func (s *GormStore) InsertBook(b domain.Book) (domain.Book, error) {
	model := BookModel{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Book{}, err
	}
	return bookFromModel(model), nil
}

// UpdateAvailability applies the delta with the copy bounds enforced in SQL,
// so a conflicting delta updates no row instead of corrupting the counter.
func (s *GormStore) UpdateAvailability(bookID int64, delta int) error {
	res := s.db.Model(&BookModel{}).
		Where("id = ?", bookID).
		Where("available_copies + ? >= 0 AND available_copies + ? <= total_copies", delta, delta).
		Update("available_copies", gorm.Expr("available_copies + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAvailabilityConflict
	}
	return nil
}

// InsertBorrowRecord stores a new open loan.
func (s *GormStore) InsertBorrowRecord(rec domain.BorrowRecord) error {
	model := BorrowRecordModel{
		PatronID:   rec.PatronID,
		BookID:     rec.BookID,
		BorrowDate: rec.BorrowDate,
		DueDate:    rec.DueDate,
	}
	return s.db.Create(&model).Error
}

// SetReturnDate closes the open loan for (patron, book).
func (s *GormStore) SetReturnDate(patronID string, bookID int64, returned time.Time) error {
	res := s.db.Model(&BorrowRecordModel{}).
		Where("patron_id = ? AND book_id = ? AND return_date IS NULL", patronID, bookID).
		Update("return_date", returned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsUpdated
	}
	return nil
}

// CountActiveBorrows counts the patron's open loans.
func (s *GormStore) CountActiveBorrows(patronID string) (int, error) {
	var count int64
	err := s.db.Model(&BorrowRecordModel{}).
		Where("patron_id = ? AND return_date IS NULL", patronID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

type loanRow struct {
	PatronID   string
	BookID     int64
	Title      string
	Author     string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// ActiveLoans returns the patron's open loans joined with book data.
func (s *GormStore) ActiveLoans(patronID string, asOf time.Time) ([]domain.Loan, error) {
	var rows []loanRow
	err := s.db.Model(&BorrowRecordModel{}).
		Select("borrow_records.patron_id, borrow_records.book_id, books.title, books.author, borrow_records.borrow_date, borrow_records.due_date").
		Joins("JOIN books ON books.id = borrow_records.book_id").
		Where("borrow_records.patron_id = ? AND borrow_records.return_date IS NULL", patronID).
		Order("borrow_records.borrow_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return loansFromRows(rows, asOf), nil
}

// BorrowHistory returns all of the patron's records, newest borrow first.
func (s *GormStore) BorrowHistory(patronID string) ([]domain.HistoryRecord, error) {
	var rows []loanRow
	err := s.db.Model(&BorrowRecordModel{}).
		Select("borrow_records.book_id, books.title, books.author, borrow_records.borrow_date, borrow_records.due_date, borrow_records.return_date").
		Joins("JOIN books ON books.id = borrow_records.book_id").
		Where("borrow_records.patron_id = ?", patronID).
		Order("borrow_records.borrow_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	history := make([]domain.HistoryRecord, 0, len(rows))
	for _, r := range rows {
		history = append(history, domain.HistoryRecord{
			BookID:     r.BookID,
			Title:      r.Title,
			Author:     r.Author,
			BorrowDate: r.BorrowDate,
			DueDate:    r.DueDate,
			ReturnDate: r.ReturnDate,
		})
	}
	return history, nil
}

// OverdueLoans returns every open loan past its due date as of asOf.
func (s *GormStore) OverdueLoans(asOf time.Time) ([]domain.Loan, error) {
	var rows []loanRow
	err := s.db.Model(&BorrowRecordModel{}).
		Select("borrow_records.patron_id, borrow_records.book_id, books.title, books.author, borrow_records.borrow_date, borrow_records.due_date").
		Joins("JOIN books ON books.id = borrow_records.book_id").
		Where("borrow_records.return_date IS NULL AND borrow_records.due_date < ?", asOf).
		Order("borrow_records.due_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	loans := make([]domain.Loan, 0, len(rows))
	for _, l := range loansFromRows(rows, asOf) {
		if l.IsOverdue {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

func loansFromRows(rows []loanRow, asOf time.Time) []domain.Loan {
	loans := make([]domain.Loan, 0, len(rows))
	for _, r := range rows {
		loans = append(loans, domain.Loan{
			PatronID:   r.PatronID,
			BookID:     r.BookID,
			Title:      r.Title,
			Author:     r.Author,
			BorrowDate: r.BorrowDate,
			DueDate:    r.DueDate,
			IsOverdue:  domain.DaysOverdue(r.DueDate, asOf) > 0,
		})
	}
	return loans
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		ISBN:            m.ISBN,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
	}
}
