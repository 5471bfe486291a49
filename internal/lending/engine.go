// Package lending implements the borrowing policy: loan creation,
// returns with fine application, fine payment, and overdue reminders.
package lending

import (
	"context"
	"fmt"
	"sync"

	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/fine"
	"github.com/erazemk/knjiznica/internal/model"
)

// Default loan periods in days.
const (
	BookLoanDays = 28
	CDLoanDays   = 7
)

// MediaRules holds the lending parameters for one media type.
type MediaRules struct {
	LoanDays int
	Fine     fine.Strategy
}

// Rules maps each media type to its lending parameters. Items whose media
// type has no entry fall back to the book rules.
type Rules map[model.MediaType]MediaRules

// DefaultRules returns the standard lending table: books for 28 days at
// 10/day overdue, CDs for 7 days at 20/day.
func DefaultRules() Rules {
	return Rules{
		model.MediaBook: {LoanDays: BookLoanDays, Fine: fine.PerDay{Rate: fine.DefaultBookRate}},
		model.MediaCD:   {LoanDays: CDLoanDays, Fine: fine.PerDay{Rate: fine.DefaultCDRate}},
	}
}

// Payment describes a completed fine payment.
type Payment struct {
	Amount        int
	BalanceBefore int
	BalanceAfter  int
}

// Engine is the single policy surface for borrowing, returns, and fine
// payments. All state lives in the injected repositories; the engine itself
// only serializes access so the item and balance invariants hold when it is
// shared between goroutines.
type Engine struct {
	mu    sync.Mutex
	users UserRepository
	items ItemRepository
	loans LoanRepository
	clock clock.Clock
	rules Rules
}

// NewEngine wires an engine. Nil collaborators or nonsensical rules are
// configuration faults and panic.
func NewEngine(users UserRepository, items ItemRepository, loans LoanRepository, clk clock.Clock, rules Rules) *Engine {
	if users == nil || items == nil || loans == nil || clk == nil {
		panic("lending: nil collaborator")
	}
	if _, ok := rules[model.MediaBook]; !ok {
		panic("lending: rules must cover the book media type")
	}
	for media, r := range rules {
		if r.LoanDays <= 0 {
			panic(fmt.Sprintf("lending: non-positive loan period for media type %q", media))
		}
		if r.Fine == nil {
			panic(fmt.Sprintf("lending: nil fine strategy for media type %q", media))
		}
	}
	return &Engine{users: users, items: items, loans: loans, clock: clk, rules: rules}
}

// rulesFor returns the lending rules for a media type, falling back to the
// book rules for unknown or empty types.
func (e *Engine) rulesFor(media model.MediaType) MediaRules {
	if r, ok := e.rules[media]; ok {
		return r
	}
	return e.rules[model.MediaBook]
}

// Borrow lends the item to the named user and returns the created loan.
//
// Eligibility is checked in a fixed order, first failure wins, and nothing is
// mutated until every check passes: non-empty username, user exists, no
// outstanding fine balance, no active overdue loan, item exists, item not
// already borrowed.
func (e *Engine) Borrow(ctx context.Context, username string, itemID int64) (*model.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if username == "" {
		return nil, ErrInvalidUser
	}

	user, err := e.users.ByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.FineBalance > 0 {
		return nil, &OutstandingFineError{Balance: user.FineBalance}
	}

	today := e.clock.Today()
	userLoans, err := e.loans.ByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("looking up user loans: %w", err)
	}
	for _, l := range userLoans {
		if !l.Returned() && l.Overdue(today) {
			return nil, ErrHasOverdueLoan
		}
	}

	item, err := e.items.ByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("looking up item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Borrowed {
		return nil, ErrItemAlreadyBorrowed
	}

	dueDate := today.AddDate(0, 0, e.rulesFor(item.Media).LoanDays)
	loan := model.NewLoan(user.ID, itemID, today, dueDate, item.Media)

	// The loan record is persisted first; if that fails nothing else has
	// been touched, so state stays consistent.
	if err := e.loans.Add(ctx, loan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToRecordLoan, err)
	}

	item.Borrowed = true
	if err := e.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("marking item borrowed: %w", err)
	}

	user.AddLoanID(loan.ID)
	if err := e.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("registering loan on user: %w", err)
	}

	return loan, nil
}

// Return closes the loan, applies any overdue fine to the user's balance,
// and frees the item. The returned loan carries the applied fine.
//
// The fine is fixed at return time: a loan returned late stays fined by its
// return date no matter when it is inspected later.
func (e *Engine) Return(ctx context.Context, loanID string) (*model.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loan, err := e.loans.ByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("looking up loan: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if loan.Returned() {
		return nil, ErrAlreadyReturned
	}

	today := e.clock.Today()
	loan.ReturnedDate = &today

	media, err := e.mediaTypeForLoan(ctx, loan)
	if err != nil {
		return nil, err
	}

	fineDue := fine.NewCalculator(e.rulesFor(media).Fine, e.clock).ForLoan(loan)
	loan.FineApplied = fineDue
	loan.FinePaid = fineDue == 0

	// The loan record is the authoritative side effect; a user that has
	// vanished since borrowing does not fail the return.
	user, err := e.users.ByID(ctx, loan.UserID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user != nil && fineDue > 0 {
		user.AddFine(fineDue)
	}

	if err := e.loans.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("updating loan: %w", err)
	}

	item, err := e.items.ByID(ctx, loan.ItemID)
	if err != nil {
		return nil, fmt.Errorf("looking up item: %w", err)
	}
	if item != nil && item.Borrowed {
		item.Borrowed = false
		if err := e.items.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("freeing item: %w", err)
		}
	}

	if user != nil {
		user.RemoveLoanID(loan.ID)
		if err := e.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
	}

	return loan, nil
}

// mediaTypeForLoan resolves which fine rules apply to a loan. Loans recorded
// before media types existed don't carry one; those are classified by
// re-reading the item, defaulting to book when that fails too.
func (e *Engine) mediaTypeForLoan(ctx context.Context, loan *model.Loan) (model.MediaType, error) {
	if loan.Media != "" {
		return loan.Media, nil
	}
	item, err := e.items.ByID(ctx, loan.ItemID)
	if err != nil {
		return "", fmt.Errorf("classifying loan media: %w", err)
	}
	if item != nil && item.Media == model.MediaCD {
		return model.MediaCD, nil
	}
	return model.MediaBook, nil
}

// PayFine deducts amount from the user's fine balance, clamped at zero.
func (e *Engine) PayFine(ctx context.Context, username string, amount int) (*Payment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if username == "" {
		return nil, ErrInvalidUser
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := e.users.ByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	before := user.FineBalance
	user.PayFine(amount)
	if err := e.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return &Payment{Amount: amount, BalanceBefore: before, BalanceAfter: user.FineBalance}, nil
}

// OverdueLoans lists all active loans that are overdue as of today.
func (e *Engine) OverdueLoans(ctx context.Context) ([]model.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Today()
	all, err := e.loans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}

	var overdue []model.Loan
	for _, l := range all {
		if !l.Returned() && l.Overdue(today) {
			overdue = append(overdue, l)
		}
	}
	return overdue, nil
}
