// Package memory provides mutex-guarded in-memory repositories. They back
// the engine tests and deployments that don't need persistence.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/erazemk/knjiznica/internal/model"
)

// Users is an in-memory user repository.
type Users struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewUsers creates an empty user repository.
func NewUsers() *Users {
	return &Users{users: make(map[string]*model.User)}
}

// copyUser returns a detached copy so callers can't mutate stored state
// without going through Update.
func copyUser(u *model.User) *model.User {
	c := *u
	c.LoanIDs = slices.Clone(u.LoanIDs)
	return &c
}

// ByID returns the user with the given ID, or nil if absent.
func (r *Users) ByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

// ByUsername returns the user with the given username, or nil if absent.
func (r *Users) ByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// Add stores a new user. Duplicate IDs or usernames are rejected.
func (r *Users) Add(_ context.Context, user *model.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("adding user: missing id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("adding user: id %s already exists", user.ID)
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("adding user: username %s already exists", user.Username)
		}
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

// Update replaces a stored user.
func (r *Users) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("updating user: id %s not found", user.ID)
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

// Delete removes a user. Unknown IDs are ignored.
func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}
