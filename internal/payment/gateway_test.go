package payment

import (
	"strings"
	"testing"
)

func TestSimulatedPaymentApproved(t *testing.T) {
	g := NewSimulatedGateway()
	resp, err := g.ProcessPayment("123456", 6.50, "Late fees for 'Clean Code'")
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if !resp.Approved {
		t.Fatalf("expected approval, got %q", resp.Message)
	}
	if !strings.HasPrefix(resp.TransactionID, TransactionIDPrefix) {
		t.Errorf("transaction id %q missing %q prefix", resp.TransactionID, TransactionIDPrefix)
	}
	if strings.Contains(resp.TransactionID, "-") {
		t.Errorf("transaction id %q contains dashes", resp.TransactionID)
	}
	if !strings.Contains(resp.Message, "$6.50") {
		t.Errorf("message %q missing amount", resp.Message)
	}
}

func TestSimulatedPaymentUniqueTransactionIDs(t *testing.T) {
	g := NewSimulatedGateway()
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		resp, err := g.ProcessPayment("123456", 1.00, "fees")
		if err != nil {
			t.Fatalf("ProcessPayment: %v", err)
		}
		if seen[resp.TransactionID] {
			t.Fatalf("duplicate transaction id %q", resp.TransactionID)
		}
		seen[resp.TransactionID] = true
	}
}

func TestSimulatedPaymentRejectsBadInput(t *testing.T) {
	g := NewSimulatedGateway()

	if _, err := g.ProcessPayment("  ", 5.00, "fees"); err == nil {
		t.Error("expected error for blank patron id")
	}

	resp, err := g.ProcessPayment("123456", 0, "fees")
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if resp.Approved {
		t.Error("zero amount should not be approved")
	}
}

func TestSimulatedRefund(t *testing.T) {
	g := NewSimulatedGateway()

	resp, err := g.RefundPayment("txn_abc", 6.50)
	if err != nil {
		t.Fatalf("RefundPayment: %v", err)
	}
	if !resp.Approved {
		t.Fatalf("expected approval, got %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "$6.50") {
		t.Errorf("message %q missing amount", resp.Message)
	}

	for _, tc := range []struct {
		txn    string
		amount float64
	}{
		{"abc", 6.50},
		{"txn_abc", 0},
		{"txn_abc", -1},
	} {
		resp, err := g.RefundPayment(tc.txn, tc.amount)
		if err != nil {
			t.Fatalf("RefundPayment(%q, %v): %v", tc.txn, tc.amount, err)
		}
		if resp.Approved {
			t.Errorf("RefundPayment(%q, %v) unexpectedly approved", tc.txn, tc.amount)
		}
	}
}
