package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"librarian/internal/payment"
	"librarian/internal/store"
	"librarian/pkg/domain"
)

const (
	loanPeriodDays = 14
	maxActiveLoans = 5

	maxTitleLen  = 200
	maxAuthorLen = 100
	isbnLen      = 13

	dateLayout = "2006-01-02"

	msgInvalidPatron = "Invalid patron ID. Must be exactly 6 digits."
)

// ErrInvalidPatronID reports a patron identifier that is not exactly six
// digits.
var ErrInvalidPatronID = errors.New("invalid patron id")

// Config wires the collaborators the circulation core depends on.
type Config struct {
	Store   store.Store
	Gateway payment.Gateway
	// Now supplies the current time; defaults to UTC wall clock. Tests
	// inject a fixed clock so fee math is deterministic.
	Now func() time.Time
}

// App implements the circulation business rules over a persistence store and
// a payment gateway. Every public operation reports expected failures as
// result values; errors are reserved for collaborator faults the caller
// cannot act on.
type App struct {
	store   store.Store
	gateway payment.Gateway
	now     func() time.Time
}

func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &App{store: cfg.Store, gateway: cfg.Gateway, now: now}, nil
}

func validPatronID(id string) bool {
	if len(id) != 6 {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func storeFailure(op string, err error) domain.OpResult {
	slog.Error("store operation failed", "op", op, "err", err)
	return domain.Failure(domain.CodeStoreError, "A database error occurred. Please try again.")
}
