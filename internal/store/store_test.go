package store

import (
	"context"
	"testing"

	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
)

func TestUsersRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	users := NewUsers(database)

	if err := users.Add(ctx, model.NewUser("alice", "alice@example.com", true)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	u, err := users.ByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if u == nil || u.ID != "alice" || u.Email != "alice@example.com" || !u.Admin {
		t.Errorf("unexpected user: %+v", u)
	}

	u.AddFine(40)
	if err := users.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fresh, _ := users.ByID(ctx, "alice")
	if fresh.FineBalance != 40 {
		t.Errorf("balance = %d, want 40", fresh.FineBalance)
	}

	if missing, err := users.ByID(ctx, "nobody"); err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for absent user, got %v, %v", missing, err)
	}

	if err := users.Add(ctx, model.NewUser("alice", "", false)); err == nil {
		t.Error("expected error for duplicate username")
	}

	if err := users.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gone, _ := users.ByID(ctx, "alice"); gone != nil {
		t.Error("expected user to be deleted")
	}
}

func TestUsersDeriveActiveLoanIDs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	users := NewUsers(database)
	loans := NewLoans(database)

	users.Add(ctx, model.NewUser("alice", "", false))

	active := model.NewLoan("alice", 1, clock.Date(2025, 1, 1), clock.Date(2025, 1, 29), model.MediaBook)
	closed := model.NewLoan("alice", 2, clock.Date(2025, 1, 2), clock.Date(2025, 1, 9), model.MediaCD)
	returned := clock.Date(2025, 1, 9)
	closed.ReturnedDate = &returned

	if err := loans.Add(ctx, active); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := loans.Add(ctx, closed); err != nil {
		t.Fatalf("Add: %v", err)
	}

	u, err := users.ByID(ctx, "alice")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(u.LoanIDs) != 1 || u.LoanIDs[0] != active.ID {
		t.Errorf("expected only the active loan, got %v", u.LoanIDs)
	}
}

func TestItemsLookupsAndNextID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	items := NewItems(database)

	if id, err := items.NextID(ctx); err != nil || id != 1 {
		t.Fatalf("NextID on empty = %d, %v; want 1", id, err)
	}

	book := &model.Item{ID: 1, Title: "Dune", Author: "Herbert", ISBN: "111", Media: model.MediaBook}
	cd := &model.Item{ID: 4, Title: "Abbey Road", Author: "The Beatles", ISBN: "222", Media: model.MediaCD}
	if err := items.Add(ctx, book); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := items.Add(ctx, cd); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if it, _ := items.ByTitle(ctx, "Dune"); it == nil || it.ID != 1 {
		t.Errorf("ByTitle: %+v", it)
	}
	if it, _ := items.ByAuthor(ctx, "The Beatles"); it == nil || it.ID != 4 {
		t.Errorf("ByAuthor: %+v", it)
	}
	if it, _ := items.ByISBN(ctx, "222"); it == nil || it.Media != model.MediaCD {
		t.Errorf("ByISBN: %+v", it)
	}
	if it, _ := items.ByID(ctx, 9); it != nil {
		t.Errorf("expected nil for absent item, got %+v", it)
	}

	if id, _ := items.NextID(ctx); id != 5 {
		t.Errorf("NextID = %d, want 5", id)
	}

	if err := items.Add(ctx, &model.Item{ID: 9, Title: "Dup", ISBN: "111"}); err == nil {
		t.Error("expected error for duplicate isbn")
	}

	book.Borrowed = true
	if err := items.Update(ctx, book); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if it, _ := items.ByID(ctx, 1); !it.Borrowed {
		t.Error("borrowed flag not persisted")
	}

	list, err := items.List(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("List: %v, %v", list, err)
	}
}

func TestLoansRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	loans := NewLoans(database)

	loan := model.NewLoan("alice", 1, clock.Date(2025, 1, 1), clock.Date(2025, 1, 29), model.MediaBook)
	if err := loans.Add(ctx, loan); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := loans.Add(ctx, loan); err == nil {
		t.Error("expected error for duplicate loan id")
	}

	stored, err := loans.ByID(ctx, loan.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored == nil || stored.Returned() {
		t.Fatalf("unexpected loan: %+v", stored)
	}
	if !stored.DueDate.Equal(loan.DueDate) {
		t.Errorf("due date = %v, want %v", stored.DueDate, loan.DueDate)
	}
	if stored.Media != model.MediaBook {
		t.Errorf("media = %q, want book", stored.Media)
	}

	returned := clock.Date(2025, 2, 3)
	loan.ReturnedDate = &returned
	loan.FineApplied = 50
	if err := loans.Update(ctx, loan); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fresh, _ := loans.ByID(ctx, loan.ID)
	if !fresh.Returned() || fresh.FineApplied != 50 || fresh.FinePaid {
		t.Errorf("update not persisted: %+v", fresh)
	}
	if !fresh.ReturnedDate.Equal(returned) {
		t.Errorf("returned date = %v, want %v", fresh.ReturnedDate, returned)
	}

	if missing, err := loans.ByID(ctx, "no-such-loan"); err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for absent loan, got %v, %v", missing, err)
	}
}

func TestLoansByUserOrderedByBorrowDate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	loans := NewLoans(database)

	second := model.NewLoan("alice", 2, clock.Date(2025, 2, 1), clock.Date(2025, 3, 1), model.MediaBook)
	first := model.NewLoan("alice", 1, clock.Date(2025, 1, 1), clock.Date(2025, 1, 29), model.MediaBook)
	other := model.NewLoan("bob", 3, clock.Date(2025, 1, 15), clock.Date(2025, 2, 12), model.MediaBook)

	for _, l := range []*model.Loan{second, first, other} {
		if err := loans.Add(ctx, l); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	mine, err := loans.ByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("ByUserID: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID || mine[1].ID != second.ID {
		t.Errorf("expected loans ordered by borrow date, got %v", mine)
	}

	all, _ := loans.List(ctx)
	if len(all) != 3 {
		t.Errorf("List: expected 3 loans, got %d", len(all))
	}
}
