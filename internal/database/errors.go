package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record already exists")
	ErrReferenceNotFound = errors.New("referenced record not found")
	ErrInUse             = errors.New("record is still referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver and GORM errors onto the package sentinels.
// onForeignKey picks the sentinel for a foreign key violation, which means
// a dangling reference on insert and a live reference on delete.
func translate(err error, onForeignKey error) error {
	if err == nil {
		return nil
	}

	code := ""
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.As(err, &pgErr):
		code = pgErr.Code
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), code == pgUniqueViolation:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), code == pgForeignKeyViolation:
		return fmt.Errorf("%w: %v", onForeignKey, err)
	}
	return err
}
