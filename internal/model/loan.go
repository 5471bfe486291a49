package model

import (
	"time"

	"github.com/google/uuid"
)

// Loan represents one borrow-to-return transaction. Loans are never deleted;
// a returned loan is the historical record of the transaction.
type Loan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`

	// Media is carried on the loan so fine and period rules don't require
	// re-reading the item. Loans recorded before media types existed may
	// leave it empty; the engine then falls back to classifying the item.
	Media MediaType `json:"media,omitempty"`

	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	FineApplied  int        `json:"fine_applied"`
	FinePaid     bool       `json:"fine_paid"`
}

// NewLoan creates an active loan with a generated ID.
func NewLoan(userID string, itemID int64, borrowDate, dueDate time.Time, media MediaType) *Loan {
	return &Loan{
		ID:         uuid.NewString(),
		UserID:     userID,
		ItemID:     itemID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
		Media:      media,
	}
}

// Returned reports whether the loan has been returned.
func (l *Loan) Returned() bool {
	return l.ReturnedDate != nil
}

// effectiveDate is the date overdue checks compare against the due date:
// the return date for a returned loan (so history stays stable), otherwise
// the given current date.
func (l *Loan) effectiveDate(currentDate time.Time) time.Time {
	if l.Returned() {
		return *l.ReturnedDate
	}
	return currentDate
}

// Overdue reports whether the loan is overdue as of currentDate. For a
// returned loan the answer is fixed by the return date and does not change
// with currentDate.
func (l *Loan) Overdue(currentDate time.Time) bool {
	return l.effectiveDate(currentDate).After(l.DueDate)
}

// OverdueDays returns the number of whole days the loan is overdue as of
// currentDate, or 0 if it is not overdue.
func (l *Loan) OverdueDays(currentDate time.Time) int {
	check := l.effectiveDate(currentDate)
	if !check.After(l.DueDate) {
		return 0
	}
	return int(check.Sub(l.DueDate) / (24 * time.Hour))
}
