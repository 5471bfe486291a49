package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// Loans is a SQLite-backed loan repository. Loans are never deleted; the
// table is the full borrowing history.
type Loans struct {
	db *sql.DB
}

// NewLoans creates a loan repository over the given database.
func NewLoans(db *sql.DB) *Loans {
	return &Loans{db: db}
}

const loanColumns = `id, user_id, item_id, media, borrow_date, due_date, returned_date, fine_applied, fine_paid`

// ByID returns a loan by ID, or nil if absent.
func (r *Loans) ByID(ctx context.Context, id string) (*model.Loan, error) {
	l := &model.Loan{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id,
	).Scan(&l.ID, &l.UserID, &l.ItemID, &l.Media, &l.BorrowDate, &l.DueDate,
		&l.ReturnedDate, &l.FineApplied, &l.FinePaid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	return l, nil
}

// ByUserID returns all loans, historical included, for a user.
func (r *Loans) ByUserID(ctx context.Context, userID string) ([]model.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id = ? ORDER BY borrow_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// List returns all loans ordered by borrow date.
func (r *Loans) List(ctx context.Context) ([]model.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans ORDER BY borrow_date, id`)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// Add records a new loan. Duplicate IDs are rejected by the primary key.
func (r *Loans) Add(ctx context.Context, loan *model.Loan) error {
	media := loan.Media
	if media == "" {
		media = model.MediaBook
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (id, user_id, item_id, media, borrow_date, due_date, returned_date, fine_applied, fine_paid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID, loan.UserID, loan.ItemID, media, loan.BorrowDate, loan.DueDate,
		loan.ReturnedDate, loan.FineApplied, loan.FinePaid,
	)
	if err != nil {
		return fmt.Errorf("recording loan: %w", err)
	}
	return nil
}

// Update persists a loan's return state and fine fields.
func (r *Loans) Update(ctx context.Context, loan *model.Loan) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE loans SET returned_date = ?, fine_applied = ?, fine_paid = ? WHERE id = ?`,
		loan.ReturnedDate, loan.FineApplied, loan.FinePaid, loan.ID,
	)
	if err != nil {
		return fmt.Errorf("updating loan: %w", err)
	}
	return nil
}

func scanLoans(rows *sql.Rows) ([]model.Loan, error) {
	var loans []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.ItemID, &l.Media, &l.BorrowDate, &l.DueDate,
			&l.ReturnedDate, &l.FineApplied, &l.FinePaid); err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
