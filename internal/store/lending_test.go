package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/lending"
	"github.com/erazemk/knjiznica/internal/model"
)

// Full borrow/return/pay cycle through the SQLite repositories, the same
// wiring the binary uses.
func TestLendingOverSQLite(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	users := NewUsers(database)
	items := NewItems(database)
	loans := NewLoans(database)
	clk := clock.NewFixed(clock.Date(2025, 1, 1))
	engine := lending.NewEngine(users, items, loans, clk, lending.DefaultRules())

	if err := users.Add(ctx, model.NewUser("alice", "alice@example.com", false)); err != nil {
		t.Fatalf("Add user: %v", err)
	}
	if err := items.Add(ctx, &model.Item{ID: 1, Title: "Dune", ISBN: "111", Media: model.MediaBook}); err != nil {
		t.Fatalf("Add item: %v", err)
	}

	loan, err := engine.Borrow(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if !loan.DueDate.Equal(clock.Date(2025, 1, 29)) {
		t.Errorf("due date = %v, want 2025-01-29", loan.DueDate)
	}

	if it, _ := items.ByID(ctx, 1); !it.Borrowed {
		t.Error("item not marked borrowed")
	}
	if u, _ := users.ByID(ctx, "alice"); len(u.LoanIDs) != 1 {
		t.Errorf("active loans = %v, want one", u.LoanIDs)
	}

	// A second borrower is turned away while the loan is active.
	if err := users.Add(ctx, model.NewUser("bob", "", false)); err != nil {
		t.Fatalf("Add user: %v", err)
	}
	if _, err := engine.Borrow(ctx, "bob", 1); !errors.Is(err, lending.ErrItemAlreadyBorrowed) {
		t.Errorf("expected ErrItemAlreadyBorrowed, got %v", err)
	}

	clk.Advance(33) // 2025-02-03, 5 days late

	returned, err := engine.Return(ctx, loan.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if returned.FineApplied != 50 || returned.FinePaid {
		t.Errorf("fine = %d (paid %v), want 50 unpaid", returned.FineApplied, returned.FinePaid)
	}

	if it, _ := items.ByID(ctx, 1); it.Borrowed {
		t.Error("item still marked borrowed after return")
	}
	if u, _ := users.ByID(ctx, "alice"); u.FineBalance != 50 || len(u.LoanIDs) != 0 {
		t.Errorf("user after return: balance %d, loans %v", u.FineBalance, u.LoanIDs)
	}

	if _, err := engine.Return(ctx, loan.ID); !errors.Is(err, lending.ErrAlreadyReturned) {
		t.Errorf("expected ErrAlreadyReturned, got %v", err)
	}

	// The outstanding fine blocks further borrowing until paid.
	var fineErr *lending.OutstandingFineError
	if _, err := engine.Borrow(ctx, "alice", 1); !errors.As(err, &fineErr) {
		t.Fatalf("expected OutstandingFineError, got %v", err)
	}
	if fineErr.Balance != 50 {
		t.Errorf("outstanding balance = %d, want 50", fineErr.Balance)
	}

	payment, err := engine.PayFine(ctx, "alice", 80)
	if err != nil {
		t.Fatalf("PayFine: %v", err)
	}
	if payment.BalanceBefore != 50 || payment.BalanceAfter != 0 {
		t.Errorf("payment = %+v, want 50 -> 0", payment)
	}

	if _, err := engine.Borrow(ctx, "alice", 1); err != nil {
		t.Errorf("borrow after paying fine: %v", err)
	}
}

func TestReminderOverSQLite(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	users := NewUsers(database)
	items := NewItems(database)
	loans := NewLoans(database)
	clk := clock.NewFixed(clock.Date(2025, 1, 1))
	engine := lending.NewEngine(users, items, loans, clk, lending.DefaultRules())

	users.Add(ctx, model.NewUser("alice", "alice@example.com", false))
	items.Add(ctx, &model.Item{ID: 1, Title: "Kind of Blue", Media: model.MediaCD})
	items.Add(ctx, &model.Item{ID: 2, Title: "Blue Train", Media: model.MediaCD})

	if _, err := engine.Borrow(ctx, "alice", 1); err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if _, err := engine.Borrow(ctx, "alice", 2); err != nil {
		t.Fatalf("Borrow: %v", err)
	}

	clk.Advance(10) // both CDs a few days overdue

	reminder := lending.NewReminder(loans, users, clk, nil)
	recorder := &countingObserver{}
	reminder.AddObserver(recorder)

	if err := reminder.SendOverdueNotifications(ctx); err != nil {
		t.Fatalf("SendOverdueNotifications: %v", err)
	}

	if recorder.calls != 1 {
		t.Errorf("observer called %d times, want 1", recorder.calls)
	}
	if recorder.last != "You have 2 overdue item(s)." {
		t.Errorf("message = %q", recorder.last)
	}
}

type countingObserver struct {
	calls int
	last  string
}

func (o *countingObserver) Notify(_ *model.User, message string) error {
	o.calls++
	o.last = message
	return nil
}
