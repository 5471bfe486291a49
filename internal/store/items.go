package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// Items is a SQLite-backed catalogue repository.
type Items struct {
	db *sql.DB
}

// NewItems creates an item repository over the given database.
func NewItems(db *sql.DB) *Items {
	return &Items{db: db}
}

const itemColumns = `id, title, author, isbn, media, borrowed`

func scanItem(row *sql.Row) (*model.Item, error) {
	it := &model.Item{}
	var author, isbn sql.NullString
	err := row.Scan(&it.ID, &it.Title, &author, &isbn, &it.Media, &it.Borrowed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	it.Author = author.String
	it.ISBN = isbn.String
	return it, nil
}

// ByID returns an item by ID, or nil if absent.
func (r *Items) ByID(ctx context.Context, id int64) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
}

// ByTitle returns the first item with the given title, or nil.
func (r *Items) ByTitle(ctx context.Context, title string) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE title = ? ORDER BY id LIMIT 1`, title))
}

// ByAuthor returns the first item by the given author, or nil.
func (r *Items) ByAuthor(ctx context.Context, author string) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE author = ? ORDER BY id LIMIT 1`, author))
}

// ByISBN returns the item with the given catalogue code, or nil.
func (r *Items) ByISBN(ctx context.Context, isbn string) (*model.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE isbn = ?`, isbn))
}

// Add creates a new item. Duplicate ISBNs are rejected by the schema.
func (r *Items) Add(ctx context.Context, item *model.Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, title, author, isbn, media, borrowed) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Author, item.ISBN, item.Media, item.Borrowed,
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// Update persists an item's attributes, including its borrowed flag.
func (r *Items) Update(ctx context.Context, item *model.Item) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET title = ?, author = ?, isbn = ?, media = ?, borrowed = ? WHERE id = ?`,
		item.Title, item.Author, item.ISBN, item.Media, item.Borrowed, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// List returns the full catalogue ordered by ID.
func (r *Items) List(ctx context.Context) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var author, isbn sql.NullString
		if err := rows.Scan(&it.ID, &it.Title, &author, &isbn, &it.Media, &it.Borrowed); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Author = author.String
		it.ISBN = isbn.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// NextID returns the highest item ID plus one, or 1 for an empty catalogue.
func (r *Items) NextID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM items`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("getting next item id: %w", err)
	}
	return max.Int64 + 1, nil
}
