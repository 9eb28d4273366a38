package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-tracker/internal/models"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and transactions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK (kind IN ('income', 'expense')),
			amount NUMERIC(24,6) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			occurred_on DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, occurred_on DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at;
		`
	row := s.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// The date column is rendered as text so range bounds such as 2024-02-31,
// which are not valid DATE literals, can still be compared.
const transactionColumns = `id, user_id, kind, amount::text, description, category, to_char(occurred_on, 'YYYY-MM-DD'), created_at`

// ListByUserAndRange returns the user's transactions dated within [start, end].
func (s *Store) ListByUserAndRange(ctx context.Context, userID int64, start, end string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND to_char(occurred_on, 'YYYY-MM-DD') BETWEEN $2 AND $3
		ORDER BY occurred_on DESC, id DESC;`
	return s.queryTransactions(ctx, query, userID, start, end)
}

// ListByUser returns every transaction owned by the user.
func (s *Store) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_on DESC, id DESC;`
	return s.queryTransactions(ctx, query, userID)
}

// Create inserts a transaction for the user.
func (s *Store) Create(ctx context.Context, userID int64, in models.TransactionInput) (models.Transaction, error) {
	in, err := in.Normalize()
	if err != nil {
		return models.Transaction{}, err
	}
	query := `
		INSERT INTO transactions (user_id, kind, amount, description, category, occurred_on)
		VALUES ($1, $2, $3::numeric, $4, $5, $6::date)
		RETURNING ` + transactionColumns + `;`
	row := s.pool.QueryRow(ctx, query, userID, string(in.Kind), in.Amount.String(), in.Description, in.Category, in.Date)
	return scanTransaction(row)
}

// Update rewrites the mutable fields of a transaction owned by the user.
func (s *Store) Update(ctx context.Context, userID, id int64, in models.TransactionUpdate) (models.Transaction, error) {
	in, err := in.Normalize()
	if err != nil {
		return models.Transaction{}, err
	}
	query := `
		UPDATE transactions
		SET amount = $1::numeric, description = $2, category = $3, occurred_on = $4::date
		WHERE id = $5 AND user_id = $6
		RETURNING ` + transactionColumns + `;`
	row := s.pool.QueryRow(ctx, query, in.Amount.String(), in.Description, in.Category, in.Date, id, userID)
	return scanTransaction(row)
}

// Delete removes a transaction owned by the user.
func (s *Store) Delete(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	var kind, amount string
	if err := row.Scan(&t.ID, &t.UserID, &kind, &amount, &t.Description, &t.Category, &t.Date, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	dec, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Kind = models.Kind(kind)
	t.Amount = dec
	return t, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
