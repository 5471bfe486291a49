package model

import "slices"

// User represents a borrower account.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	FineBalance int    `json:"fine_balance"`
	Admin       bool   `json:"admin,omitempty"`

	// LoanIDs lists the user's active (unreturned) loans.
	LoanIDs []string `json:"loan_ids,omitempty"`
}

// NewUser creates a user whose ID defaults to the username.
func NewUser(username, email string, admin bool) *User {
	return &User{
		ID:       username,
		Username: username,
		Email:    email,
		Admin:    admin,
	}
}

// AddFine increases the user's fine balance. Non-positive amounts are ignored.
func (u *User) AddFine(amount int) {
	if amount <= 0 {
		return
	}
	u.FineBalance += amount
}

// PayFine deducts amount from the balance, clamped at zero. Non-positive
// amounts are ignored.
func (u *User) PayFine(amount int) {
	if amount <= 0 {
		return
	}
	u.FineBalance -= amount
	if u.FineBalance < 0 {
		u.FineBalance = 0
	}
}

// AddLoanID registers an active loan. Duplicates and empty IDs are ignored.
func (u *User) AddLoanID(loanID string) {
	if loanID == "" || slices.Contains(u.LoanIDs, loanID) {
		return
	}
	u.LoanIDs = append(u.LoanIDs, loanID)
}

// RemoveLoanID unregisters a loan. Unknown IDs are ignored.
func (u *User) RemoveLoanID(loanID string) {
	u.LoanIDs = slices.DeleteFunc(u.LoanIDs, func(id string) bool {
		return id == loanID
	})
}
