package model

import "testing"

func TestUserFineBalance(t *testing.T) {
	tests := []struct {
		name     string
		add      int
		pay      int
		expected int
	}{
		{"pay exact", 50, 50, 0},
		{"pay partial", 50, 20, 30},
		{"overpay clamps to zero", 50, 100, 0},
		{"negative payment ignored", 50, -10, 50},
		{"zero payment ignored", 50, 0, 50},
		{"negative fine ignored", -10, 0, 0},
	}

	for _, tt := range tests {
		u := NewUser("alice", "alice@example.com", false)
		u.AddFine(tt.add)
		u.PayFine(tt.pay)
		if u.FineBalance != tt.expected {
			t.Errorf("%s: balance = %d, want %d", tt.name, u.FineBalance, tt.expected)
		}
	}
}

func TestUserLoanIDs(t *testing.T) {
	u := NewUser("alice", "", false)

	u.AddLoanID("l1")
	u.AddLoanID("l2")
	u.AddLoanID("l1") // duplicate
	u.AddLoanID("")   // empty

	if len(u.LoanIDs) != 2 {
		t.Fatalf("expected 2 loan ids, got %v", u.LoanIDs)
	}

	u.RemoveLoanID("l1")
	u.RemoveLoanID("unknown")

	if len(u.LoanIDs) != 1 || u.LoanIDs[0] != "l2" {
		t.Errorf("expected [l2], got %v", u.LoanIDs)
	}
}

func TestNewUserDefaultsIDToUsername(t *testing.T) {
	u := NewUser("bob", "bob@example.com", true)
	if u.ID != "bob" {
		t.Errorf("expected ID bob, got %s", u.ID)
	}
	if !u.Admin {
		t.Error("expected admin flag")
	}
	if u.FineBalance != 0 {
		t.Errorf("expected zero balance, got %d", u.FineBalance)
	}
}
