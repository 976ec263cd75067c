package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/deppfellow/users-service/internal/model"
)

// BunExecutor runs queries against the users table through bun.
type BunExecutor struct {
	db bun.IDB
}

// NewBunExecutor wraps db. db may be a *bun.DB, bun.Conn or bun.Tx.
func NewBunExecutor(db bun.IDB) *BunExecutor {
	return &BunExecutor{db: db}
}

// Select runs q and scans the selected columns into users.
//
// An empty result is an empty slice, never an error.
func (e *BunExecutor) Select(ctx context.Context, q SelectQuery) ([]model.User, error) {
	users := make([]model.User, 0)

	// The alias has to match the one declared on model.User.
	query := e.db.NewSelect().
		Model(&users).
		ModelTableExpr("? AS u", bun.Ident(q.Table)).
		Column(q.Columns...)

	if q.Where != nil {
		query = query.Where("?TableAlias.? = ?", bun.Ident(q.Where.Column), q.Where.Value)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.Wrapf(err, "select from %s", q.Table)
	}

	return users, nil
}

// Update applies q.Set to the matching rows and returns them as reported by
// RETURNING.
func (e *BunExecutor) Update(ctx context.Context, q UpdateQuery) ([]model.User, error) {
	if len(q.Set) == 0 {
		return nil, errors.Errorf("update %s: no columns to set", q.Table)
	}

	// bun needs an addressable map to build SET from.
	values := make(map[string]interface{}, len(q.Set))
	for column, value := range q.Set {
		values[column] = value
	}

	users := make([]model.User, 0, 1)

	_, err := e.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(q.Table)).
		Where("? = ?", bun.Ident(q.Where.Column), q.Where.Value).
		Returning(returning(q.Returning)).
		Exec(ctx, &users)
	if err != nil {
		return nil, errors.Wrapf(err, "update %s", q.Table)
	}

	return users, nil
}

// Delete removes the matching rows and returns them as reported by RETURNING.
func (e *BunExecutor) Delete(ctx context.Context, q DeleteQuery) ([]model.User, error) {
	users := make([]model.User, 0, 1)

	_, err := e.db.NewDelete().
		Model((*model.User)(nil)).
		ModelTableExpr("? AS u", bun.Ident(q.Table)).
		Where("?TableAlias.? = ?", bun.Ident(q.Where.Column), q.Where.Value).
		Returning(returning(q.Returning)).
		Exec(ctx, &users)
	if err != nil {
		return nil, errors.Wrapf(err, "delete from %s", q.Table)
	}

	return users, nil
}

// returning renders a RETURNING column list. Columns come from model
// constants, never from callers' input.
func returning(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	return strings.Join(columns, ", ")
}
