package app

import (
	"fmt"
	"log/slog"
	"strings"

	"librarian/internal/payment"
	"librarian/pkg/domain"
)

// PayLateFee settles the current late fee on a patron's loan through the
// payment gateway. The gateway is only contacted once every local check has
// passed, and a gateway fault surfaces as a result, never as a panic or a
// raw error.
func (a *App) PayLateFee(patronID string, bookID int64) domain.PaymentResult {
	if !validPatronID(patronID) {
		return domain.PaymentResult{Message: msgInvalidPatron}
	}
	fee := a.LateFee(patronID, bookID)
	if fee.FeeAmount <= 0 {
		return domain.PaymentResult{Message: "No late fees to pay for this book."}
	}
	book, found, err := a.store.GetBookByID(bookID)
	if err != nil || !found {
		return domain.PaymentResult{Message: "Book not found."}
	}
	description := fmt.Sprintf("Late fees for '%s'", book.Title)
	resp, err := a.gateway.ProcessPayment(patronID, fee.FeeAmount, description)
	if err != nil {
		slog.Error("payment gateway error", "patron_id", patronID, "book_id", bookID, "err", err)
		return domain.PaymentResult{Message: "Payment processing error: " + err.Error()}
	}
	if !resp.Approved {
		return domain.PaymentResult{Message: "Payment failed: " + resp.Message}
	}
	return domain.PaymentResult{
		Succeeded:     true,
		Message:       "Payment successful! " + resp.Message,
		TransactionID: resp.TransactionID,
	}
}

// RefundLateFee reverses a prior late-fee payment. Amounts above the
// per-book fee cap can never have been charged for one loan, so they are
// rejected before the gateway is contacted.
func (a *App) RefundLateFee(transactionID string, amount float64) domain.RefundResult {
	if transactionID == "" || !strings.HasPrefix(transactionID, payment.TransactionIDPrefix) {
		return domain.RefundResult{Message: "Invalid transaction ID."}
	}
	if amount <= 0 {
		return domain.RefundResult{Message: "Refund amount must be greater than 0."}
	}
	if amount > maxFeePerBook {
		return domain.RefundResult{Message: "Refund amount exceeds maximum late fee."}
	}
	resp, err := a.gateway.RefundPayment(transactionID, amount)
	if err != nil {
		slog.Error("refund gateway error", "transaction_id", transactionID, "err", err)
		return domain.RefundResult{Message: "Refund processing error: " + err.Error()}
	}
	if !resp.Approved {
		return domain.RefundResult{Message: "Refund failed: " + resp.Message}
	}
	return domain.RefundResult{Succeeded: true, Message: resp.Message}
}
