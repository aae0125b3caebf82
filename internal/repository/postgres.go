package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"go-life-planner/internal/database"
)

// PostgresUnitOfWork binds the Postgres repositories to the pool or to a
// single transaction.
type PostgresUnitOfWork struct {
	db *database.DB
}

func NewPostgresUnitOfWork(db *database.DB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db}
}

func (u *PostgresUnitOfWork) Stores() Stores {
	return storesFor(u.db.Pool)
}

func (u *PostgresUnitOfWork) RunInTx(ctx context.Context, fn func(stores Stores) error) error {
	return u.db.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(storesFor(tx))
	})
}

func storesFor(db DBTX) Stores {
	return Stores{
		Recycle:  NewRecycleRepository(db),
		Entities: NewEntityRepository(db),
	}
}
