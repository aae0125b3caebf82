package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-life-planner/internal/model"
	"go-life-planner/internal/registry"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation          = "23505"
	characterNotInRepertoire = "22021"
	untranslatableCharacter  = "22P05"
)

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// isUnstorableText reports text JSONB refuses: invalid UTF-8 or a \u0000
// escape.
func isUnstorableText(err error) bool {
	return hasCode(err, characterNotInRepertoire, untranslatableCharacter)
}

func hasCode(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, code := range codes {
		if pgErr.Code == code {
			return true
		}
	}
	return false
}

var knownCollections = func() map[string]struct{} {
	out := map[string]struct{}{}
	for _, name := range registry.Collections() {
		out[name] = struct{}{}
	}
	return out
}()

// tableName quotes a registry collection name for use in SQL. Anything the
// registry does not know is rejected.
func tableName(collection string) (string, error) {
	if _, ok := knownCollections[collection]; !ok {
		return "", fmt.Errorf("%w: unknown collection %q", model.ErrInvalidType, collection)
	}
	return pgx.Identifier{collection}.Sanitize(), nil
}
