package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors surfaced by the repositories.
var (
	// ErrDuplicateUser indicates the email is already registered.
	ErrDuplicateUser = errors.New("repository: user already exists")
	// ErrDuplicateKey indicates a unique index rejected a write, typically
	// two requests racing to mirror the same catalog entity.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

const mysqlDupEntry = 1062

// isDuplicate reports whether err is a MySQL duplicate-entry error.
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry
}

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code runs standalone or
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// UnitOfWork runs a closure against artist and album repositories bound to a
// single database transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(artists ArtistRepository, albums AlbumRepository) error) error
}

// mysqlUnitOfWork implements UnitOfWork over *sql.DB.
type mysqlUnitOfWork struct {
	db *sql.DB
}

// NewMySQLUnitOfWork creates a UnitOfWork backed by the given database.
func NewMySQLUnitOfWork(db *sql.DB) UnitOfWork {
	return &mysqlUnitOfWork{db: db}
}

// WithinTx begins a transaction, hands transaction-bound repositories to fn,
// and commits if fn returns nil. Any error rolls the transaction back.
func (u *mysqlUnitOfWork) WithinTx(ctx context.Context, fn func(artists ArtistRepository, albums AlbumRepository) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(NewMySQLArtistRepository(tx), NewMySQLAlbumRepository(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
