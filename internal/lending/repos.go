package lending

import (
	"context"

	"github.com/erazemk/knjiznica/internal/model"
)

// Repository contracts consumed by the engine and the reminder service.
// Implementations live in the memory and store packages. Lookups return
// (nil, nil) for ordinary absence; errors are reserved for infrastructure
// failures.

// UserRepository stores borrower accounts.
type UserRepository interface {
	ByID(ctx context.Context, id string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	Add(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// ItemRepository stores the catalogue.
type ItemRepository interface {
	ByID(ctx context.Context, id int64) (*model.Item, error)
	ByTitle(ctx context.Context, title string) (*model.Item, error)
	ByAuthor(ctx context.Context, author string) (*model.Item, error)
	ByISBN(ctx context.Context, isbn string) (*model.Item, error)
	Add(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	List(ctx context.Context) ([]model.Item, error)
	NextID(ctx context.Context) (int64, error)
}

// LoanRepository stores loan records. Add fails on a duplicate loan ID.
type LoanRepository interface {
	ByID(ctx context.Context, id string) (*model.Loan, error)
	ByUserID(ctx context.Context, userID string) ([]model.Loan, error)
	List(ctx context.Context) ([]model.Loan, error)
	Add(ctx context.Context, loan *model.Loan) error
	Update(ctx context.Context, loan *model.Loan) error
}
