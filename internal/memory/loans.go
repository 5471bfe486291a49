package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/erazemk/knjiznica/internal/model"
)

// Loans is an in-memory loan repository. List returns loans in the order
// they were recorded.
type Loans struct {
	mu    sync.Mutex
	loans map[string]*model.Loan
	order []string
}

// NewLoans creates an empty loan repository.
func NewLoans() *Loans {
	return &Loans{loans: make(map[string]*model.Loan)}
}

// copyLoan detaches the stored record, including the returned-date pointer.
func copyLoan(l *model.Loan) *model.Loan {
	c := *l
	if l.ReturnedDate != nil {
		d := *l.ReturnedDate
		c.ReturnedDate = &d
	}
	return &c
}

// ByID returns the loan with the given ID, or nil if absent.
func (r *Loans) ByID(_ context.Context, id string) (*model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok {
		return nil, nil
	}
	return copyLoan(l), nil
}

// ByUserID returns all loans, historical included, for a user.
func (r *Loans) ByUserID(_ context.Context, userID string) ([]model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Loan
	for _, id := range r.order {
		if l := r.loans[id]; l.UserID == userID {
			out = append(out, *copyLoan(l))
		}
	}
	return out, nil
}

// List returns all loans in recording order.
func (r *Loans) List(_ context.Context) ([]model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Loan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *copyLoan(r.loans[id]))
	}
	return out, nil
}

// Add records a new loan. Duplicate IDs are rejected.
func (r *Loans) Add(_ context.Context, loan *model.Loan) error {
	if loan == nil || loan.ID == "" {
		return fmt.Errorf("adding loan: missing id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[loan.ID]; ok {
		return fmt.Errorf("adding loan: id %s already exists", loan.ID)
	}
	r.loans[loan.ID] = copyLoan(loan)
	r.order = append(r.order, loan.ID)
	return nil
}

// Update replaces a stored loan.
func (r *Loans) Update(_ context.Context, loan *model.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[loan.ID]; !ok {
		return fmt.Errorf("updating loan: id %s not found", loan.ID)
	}
	r.loans[loan.ID] = copyLoan(loan)
	return nil
}
