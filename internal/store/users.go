// Package store provides SQLite-backed repositories for the lending engine.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// Users is a SQLite-backed user repository.
//
// A user's active loan IDs are not stored on the user row; they are derived
// from the loans table, so Update only persists the user's own attributes.
type Users struct {
	db *sql.DB
}

// NewUsers creates a user repository over the given database.
func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// ByID returns a user by ID, or nil if absent.
func (r *Users) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, username, email, fine_balance, is_admin FROM users WHERE id = ?`, id)
}

// ByUsername returns a user by username, or nil if absent.
func (r *Users) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, username, email, fine_balance, is_admin FROM users WHERE username = ?`, username)
}

func (r *Users) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	u := &model.User{}
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &email, &u.FineBalance, &u.Admin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Email = email.String

	if err := r.loadLoanIDs(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// loadLoanIDs fills in the user's active loans from the loans table.
func (r *Users) loadLoanIDs(ctx context.Context, u *model.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM loans WHERE user_id = ? AND returned_date IS NULL ORDER BY borrow_date, id`,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("getting user loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning loan id: %w", err)
		}
		u.LoanIDs = append(u.LoanIDs, id)
	}
	return rows.Err()
}

// Add creates a new user. Duplicate IDs or usernames are rejected by the
// schema.
func (r *Users) Add(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, fine_balance, is_admin) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.FineBalance, user.Admin,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Update persists a user's attributes. Loan IDs are derived state and are
// not written here; the loans table is updated through the loan repository.
func (r *Users) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, fine_balance = ?, is_admin = ? WHERE id = ?`,
		user.Username, user.Email, user.FineBalance, user.Admin, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// Delete removes a user.
func (r *Users) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
