// Package sqlite implements the storage contracts on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-tracker/internal/models"
	"github.com/hongminglow/finance-tracker/internal/storage"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var _ storage.Store = (*Store)(nil)

// Store wraps a sql.DB connection.
type Store struct {
	conn *sql.DB
}

// NewStore opens the database at path and runs migrations.
func NewStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; a single connection also keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// CreateUser creates a new user with a unique email.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		user.Name, user.Email, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.FindByID(ctx, id)
}

// FindByEmail retrieves a user by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.conn.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?",
		email,
	))
}

// FindByID retrieves a user by ID.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(s.conn.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?",
		id,
	))
}

const transactionColumns = "id, user_id, kind, amount, description, category, date, created_at"

// ListByUserAndRange returns the user's transactions dated within [start, end].
// Dates are stored as YYYY-MM-DD text, so BETWEEN compares them lexicographically.
func (s *Store) ListByUserAndRange(ctx context.Context, userID int64, start, end string) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date DESC, id DESC",
		userID, start, end,
	)
}

// ListByUser returns every transaction owned by the user.
func (s *Store) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC",
		userID,
	)
}

// Create inserts a transaction for the user.
func (s *Store) Create(ctx context.Context, userID int64, in models.TransactionInput) (models.Transaction, error) {
	in, err := in.Normalize()
	if err != nil {
		return models.Transaction{}, err
	}
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO transactions (user_id, kind, amount, description, category, date) VALUES (?, ?, ?, ?, ?, ?)",
		userID, string(in.Kind), in.Amount.String(), in.Description, in.Category, in.Date,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}
	return s.get(ctx, userID, id)
}

// Update rewrites the mutable fields of a transaction owned by the user.
func (s *Store) Update(ctx context.Context, userID, id int64, in models.TransactionUpdate) (models.Transaction, error) {
	in, err := in.Normalize()
	if err != nil {
		return models.Transaction{}, err
	}
	result, err := s.conn.ExecContext(ctx,
		"UPDATE transactions SET amount = ?, description = ?, category = ?, date = ? WHERE id = ? AND user_id = ?",
		in.Amount.String(), in.Description, in.Category, in.Date, id, userID,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := requireAffected(result); err != nil {
		return models.Transaction{}, err
	}
	return s.get(ctx, userID, id)
}

// Delete removes a transaction owned by the user.
func (s *Store) Delete(ctx context.Context, userID, id int64) error {
	result, err := s.conn.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *Store) get(ctx context.Context, userID, id int64) (models.Transaction, error) {
	return scanTransaction(s.conn.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	))
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (models.Transaction, error) {
	var t models.Transaction
	var kind, amount string
	if err := row.Scan(&t.ID, &t.UserID, &kind, &amount, &t.Description, &t.Category, &t.Date, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Kind = models.Kind(kind)
	t.Amount = dec
	return t, nil
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
