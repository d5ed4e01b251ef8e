package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// dbtx common surface of *sql.DB and *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresTransactor Transactor over database/sql
type PostgresTransactor struct {
	db *sql.DB
}

// NewPostgresTransactor creates the Postgres transactor
func NewPostgresTransactor(db *sql.DB) *PostgresTransactor {
	return &PostgresTransactor{db: db}
}

var _ Transactor = (*PostgresTransactor)(nil)

func postgresStores(q dbtx) Stores {
	return Stores{
		Patients:   &PostgresPatientsRepository{db: q},
		Admissions: &PostgresAdmissionsRepository{db: q},
		Beds:       &PostgresBedAssignmentsRepository{db: q},
	}
}

// Stores repositories on the pool
func (t *PostgresTransactor) Stores() Stores {
	return postgresStores(t.db)
}

// WithinTx BeginTx / fn / Commit, rolled back on any error
func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, postgresStores(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	return nil
}
