// Package storage is the SQL-backed record store. It speaks SQLite through
// modernc.org/sqlite and PostgreSQL through pgx, with schema managed by
// golang-migrate.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"expensetracker/internal/core"
)

const selectColumns = `SELECT id, amount, category, spent_on, description, created_at FROM expenses`

// Repository implements store.RecordStore on a database/sql handle.
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteRepository opens (creating if needed) the SQLite file at dbPath
// and brings its schema up to date.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open(SQLite.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serialises writers.
	db.SetMaxOpenConns(1)
	return open(db, dsn, SQLite)
}

// NewPostgresRepository connects to the database at url and brings its
// schema up to date.
func NewPostgresRepository(url string) (*Repository, error) {
	db, err := sql.Open(Postgres.driverName(), url)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return open(db, url, Postgres)
}

func open(db *sql.DB, dsn string, d Dialect) (*Repository, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dsn, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Repository{db: db, dialect: d}, nil
}

// Dialect reports which database the repository talks to.
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	created := time.Now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(
		`INSERT INTO expenses (amount, category, spent_on, description, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		e.Amount.String(), e.Category, e.Date.String(), e.Description, created.Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"dialect", string(r.dialect),
		"category", e.Category,
		"amount", e.Amount.String(),
		"date", e.Date.String())

	return id, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]core.Expense, error) {
	return r.query(ctx, selectColumns+` ORDER BY spent_on DESC, id DESC`)
}

func (r *Repository) ListRecent(ctx context.Context, n int) ([]core.Expense, error) {
	if n <= 0 {
		return []core.Expense{}, nil
	}
	return r.query(ctx, selectColumns+` ORDER BY spent_on DESC, id DESC LIMIT ?`, n)
}

func (r *Repository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.rebind(selectColumns+` WHERE id = ?`), id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM expenses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "dialect", string(r.dialect))
	return nil
}

// SumAll adds amounts in Go so both dialects produce identical decimals.
func (r *Repository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT amount FROM expenses`)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amt decimal.Decimal
		if err := rows.Scan(&amt); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		total = total.Add(amt)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e       core.Expense
		spentOn sqlTime
		created sqlTime
	)
	if err := s.Scan(&e.ID, &e.Amount, &e.Category, &spentOn, &e.Description, &created); err != nil {
		return core.Expense{}, err
	}
	e.Date = core.NewDate(spentOn.Year(), int(spentOn.Month()), spentOn.Day())
	e.CreatedAt = created.UTC()
	return e, nil
}
