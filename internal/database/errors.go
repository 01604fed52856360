package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = gorm.ErrRecordNotFound
	ErrDuplicate      = errors.New("duplicate key")
	ErrForeignKey     = errors.New("foreign key violation")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedColumn     = "42703"
	pgUndefinedTable      = "42P01"
)

// Classify maps driver errors onto the package sentinels. The original error
// stays in the chain; unknown errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrForeignKey) || errors.Is(err, ErrSchemaMismatch) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case pgUndefinedColumn, pgUndefinedTable:
			return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such column") || strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column named") {
		return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
