package repo

import (
	"context"
	"database/sql"

	"github.com/rndrianasolo/commercepro/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// postgresRepo hosts every table repository on one sqlx handle. Statements
// route through the context transaction when one is active.
type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func newBase(db *sqlx.DB) postgresRepo {
	return postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
