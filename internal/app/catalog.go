package app

import (
	"fmt"
	"log/slog"
	"strings"

	"librarian/pkg/domain"
)

// AddBook validates and inserts a new catalog entry with all copies
// available.
func (a *App) AddBook(title, author, isbn string, totalCopies int) domain.OpResult {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return domain.Failure(domain.CodeInvalidBook, "Title is required.")
	}
	if len(title) > maxTitleLen {
		return domain.Failure(domain.CodeInvalidBook, "Title must be less than 200 characters.")
	}
	if author == "" {
		return domain.Failure(domain.CodeInvalidBook, "Author is required.")
	}
	if len(author) > maxAuthorLen {
		return domain.Failure(domain.CodeInvalidBook, "Author must be less than 100 characters.")
	}
	if len(isbn) != isbnLen {
		return domain.Failure(domain.CodeInvalidBook, "ISBN must be exactly 13 digits.")
	}
	if totalCopies <= 0 {
		return domain.Failure(domain.CodeInvalidBook, "Total copies must be a positive integer.")
	}
	_, exists, err := a.store.GetBookByISBN(isbn)
	if err != nil {
		return storeFailure("look up isbn", err)
	}
	if exists {
		return domain.Failure(domain.CodeDuplicateISBN, "A book with this ISBN already exists.")
	}
	book := domain.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
	if _, err := a.store.InsertBook(book); err != nil {
		slog.Error("book insert failed", "isbn", isbn, "err", err)
		return domain.Failure(domain.CodeStoreError, "Database error occurred while adding the book.")
	}
	return domain.Success(fmt.Sprintf("Book %q has been successfully added to the catalog.", title))
}

// Search filters a snapshot of the catalog. Kind is one of title, author, or
// isbn; anything else falls back to a title search. A blank term returns the
// whole catalog in store order.
func (a *App) Search(term, kind string) ([]domain.Book, error) {
	books, err := a.store.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return books, nil
	}
	var match func(b domain.Book) bool
	switch strings.ToLower(kind) {
	case "isbn":
		match = func(b domain.Book) bool { return b.ISBN == term }
	case "author":
		match = func(b domain.Book) bool { return containsFold(b.Author, term) }
	default:
		match = func(b domain.Book) bool { return containsFold(b.Title, term) }
	}
	out := []domain.Book{}
	for _, b := range books {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func containsFold(field, term string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(term))
}
