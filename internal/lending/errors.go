package lending

import (
	"errors"
	"fmt"
)

// Business outcomes surfaced to callers. These are expected conditions, not
// faults; callers match them with errors.Is or errors.As.
var (
	ErrInvalidUser         = errors.New("invalid user")
	ErrUserNotFound        = errors.New("user not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrItemAlreadyBorrowed = errors.New("item is already borrowed")
	ErrHasOverdueLoan      = errors.New("cannot borrow: overdue item(s) on loan")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrAlreadyReturned     = errors.New("loan already returned")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrFailedToRecordLoan  = errors.New("failed to record loan")
)

// OutstandingFineError rejects borrowing while the user owes fines.
type OutstandingFineError struct {
	Balance int
}

func (e *OutstandingFineError) Error() string {
	return fmt.Sprintf("cannot borrow: outstanding fine balance = %d", e.Balance)
}
