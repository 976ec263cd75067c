// Package repository handles all interactions with the user store.
//
// Repositories describe queries as store values and hand them to a
// QueryExecutor; they never build SQL themselves. Failures are recorded
// on a DiagnosticSink and returned tagged with an errs.Kind.
package repository

import (
	"context"

	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/store"
)

// QueryExecutor issues queries against the user table.
//
// store.BunExecutor is the production implementation.
type QueryExecutor interface {
	Select(ctx context.Context, q store.SelectQuery) ([]model.User, error)
	Update(ctx context.Context, q store.UpdateQuery) ([]model.User, error)
	Delete(ctx context.Context, q store.DeleteQuery) ([]model.User, error)
}

// DiagnosticSink records operational events. It is never consulted for
// control flow and its own failures are not handled.
type DiagnosticSink interface {
	Info(ctx context.Context, msg string)
	Error(ctx context.Context, msg string, err error)
}
