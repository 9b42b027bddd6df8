package payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TransactionIDPrefix marks transaction ids issued for late-fee payments.
// Refund requests are validated against it before the gateway is contacted.
const TransactionIDPrefix = "txn_"

// PaymentResponse is the gateway's answer to a charge request.
type PaymentResponse struct {
	Approved      bool
	TransactionID string
	Message       string
}

// RefundResponse is the gateway's answer to a refund request.
type RefundResponse struct {
	Approved bool
	Message  string
}

// Gateway is the external payment collaborator. An error models a transport
// or provider fault; a declined charge is an unapproved response, not an
// error.
type Gateway interface {
	ProcessPayment(patronID string, amount float64, description string) (PaymentResponse, error)
	RefundPayment(transactionID string, amount float64) (RefundResponse, error)
}

// SimulatedGateway approves well-formed requests locally. It stands in for a
// real provider in development and in the default server wiring.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway { return &SimulatedGateway{} }

func (g *SimulatedGateway) ProcessPayment(patronID string, amount float64, description string) (PaymentResponse, error) {
	if strings.TrimSpace(patronID) == "" {
		return PaymentResponse{}, fmt.Errorf("patron id is required")
	}
	if amount <= 0 {
		return PaymentResponse{Message: "Amount must be greater than zero."}, nil
	}
	txn := TransactionIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	return PaymentResponse{
		Approved:      true,
		TransactionID: txn,
		Message:       fmt.Sprintf("Charged $%.2f: %s", amount, description),
	}, nil
}

func (g *SimulatedGateway) RefundPayment(transactionID string, amount float64) (RefundResponse, error) {
	if !strings.HasPrefix(transactionID, TransactionIDPrefix) {
		return RefundResponse{Message: "Unknown transaction."}, nil
	}
	if amount <= 0 {
		return RefundResponse{Message: "Amount must be greater than zero."}, nil
	}
	return RefundResponse{
		Approved: true,
		Message:  fmt.Sprintf("Refunded $%.2f to original payment method.", amount),
	}, nil
}
