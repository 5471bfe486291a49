package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/erazemk/knjiznica/internal/model"
)

// Items is an in-memory catalogue repository. Insertion order is preserved
// for List.
type Items struct {
	mu    sync.Mutex
	items []model.Item
}

// NewItems creates an empty catalogue.
func NewItems() *Items {
	return &Items{}
}

// find returns a copy of the first item matching the predicate, or nil.
func (r *Items) find(match func(model.Item) bool) *model.Item {
	for _, it := range r.items {
		if match(it) {
			c := it
			return &c
		}
	}
	return nil
}

// ByID returns the item with the given ID, or nil if absent.
func (r *Items) ByID(_ context.Context, id int64) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(it model.Item) bool { return it.ID == id }), nil
}

// ByTitle returns the first item with the given title, or nil.
func (r *Items) ByTitle(_ context.Context, title string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(it model.Item) bool { return it.Title == title }), nil
}

// ByAuthor returns the first item by the given author, or nil.
func (r *Items) ByAuthor(_ context.Context, author string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(it model.Item) bool { return it.Author == author }), nil
}

// ByISBN returns the item with the given catalogue code, or nil.
func (r *Items) ByISBN(_ context.Context, isbn string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(it model.Item) bool { return it.ISBN == isbn }), nil
}

// Add stores a new item. Duplicate IDs or ISBNs are rejected.
func (r *Items) Add(_ context.Context, item *model.Item) error {
	if item == nil {
		return fmt.Errorf("adding item: nil item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == item.ID {
			return fmt.Errorf("adding item: id %d already exists", item.ID)
		}
		if item.ISBN != "" && it.ISBN == item.ISBN {
			return fmt.Errorf("adding item: isbn %s already exists", item.ISBN)
		}
	}
	r.items = append(r.items, *item)
	return nil
}

// Update replaces a stored item.
func (r *Items) Update(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return fmt.Errorf("updating item: id %d not found", item.ID)
}

// List returns all items in insertion order.
func (r *Items) List(_ context.Context) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// NextID returns the highest stored ID plus one, or 1 when empty.
func (r *Items) NextID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, it := range r.items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1, nil
}
