package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/finance-tracker/internal/models"
)

// ErrNotFound indicates a record does not exist or is not owned by the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
}

// TransactionStore persists transactions scoped to their owning user.
// Every method filters by userID; rows owned by someone else behave as missing.
type TransactionStore interface {
	// ListByUserAndRange returns transactions whose date lies in [start, end],
	// compared as YYYY-MM-DD text, newest date first.
	ListByUserAndRange(ctx context.Context, userID int64, start, end string) ([]models.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	Create(ctx context.Context, userID int64, in models.TransactionInput) (models.Transaction, error)
	Update(ctx context.Context, userID, id int64, in models.TransactionUpdate) (models.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	TransactionStore
	Close() error
}
