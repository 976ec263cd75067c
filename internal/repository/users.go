package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/users-service/internal/errs"
	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/sqlerr"
	"github.com/deppfellow/users-service/internal/store"
)

// UserRepository reads, updates and deletes user rows.
//
// It holds no mutable state and is safe for concurrent use. The existence
// and email checks in UpdateUser are separate requests from the write; the
// unique index on users.email backs up the email check (see UpdateUser).
type UserRepository struct {
	db   QueryExecutor
	sink DiagnosticSink
	now  func() time.Time
}

// NewUserRepository returns a UserRepository over db, reporting to sink.
func NewUserRepository(db QueryExecutor, sink DiagnosticSink) *UserRepository {
	return &UserRepository{
		db:   db,
		sink: sink,
		now:  time.Now,
	}
}

// ListUsers returns every user in store order. An empty store yields an
// empty, non-nil slice.
func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := r.db.Select(ctx, store.SelectQuery{
		Table:   model.UsersTable,
		Columns: model.UserColumns,
	})
	if err != nil {
		err = errs.StoreFailure("ListUsers", err)
		r.sink.Error(ctx, "error fetching all users", err)
		return nil, err
	}

	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// GetUserByID returns the user with id, or an errs.KindNotFound error.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	user, err := r.findOne(ctx, "GetUserByID", store.Eq(model.ColumnID, id))
	if err != nil {
		r.sink.Error(ctx, "error fetching user", err)
		return model.User{}, err
	}
	return user, nil
}

// GetUserByEmail returns the user with email, or an errs.KindNotFound error.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := r.findOne(ctx, "GetUserByEmail", store.Eq(model.ColumnEmail, email))
	if err != nil {
		r.sink.Error(ctx, "error fetching user", err)
		return model.User{}, err
	}
	return user, nil
}

// UpdateUser applies upd to the user with id and returns the updated row.
//
// The user must exist (errs.KindNotFound otherwise). A changed email must
// not belong to any other row (errs.KindConflict otherwise). Neither failure
// issues a write. updated_at is always stamped, even when upd is empty.
//
// The email check and the write are not atomic. If another call takes the
// email in between, the store's unique constraint rejects the write and
// that rejection is reported as errs.KindConflict too.
func (r *UserRepository) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (model.User, error) {
	const op = "UpdateUser"

	updated, err := r.updateUser(ctx, op, id, upd)
	if err != nil {
		r.sink.Error(ctx, "error updating user", err)
		return model.User{}, err
	}

	r.sink.Info(ctx, fmt.Sprintf("User %s updated successfully", updated.Email))
	return updated, nil
}

func (r *UserRepository) updateUser(ctx context.Context, op string, id int64, upd model.UserUpdate) (model.User, error) {
	existing, err := r.findOne(ctx, op, store.Eq(model.ColumnID, id))
	if err != nil {
		return model.User{}, err
	}

	if upd.Email != nil && *upd.Email != existing.Email {
		taken, err := r.emailTaken(ctx, op, *upd.Email)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, errs.Conflict(op, "email already exists", nil)
		}
	}

	rows, err := r.db.Update(ctx, store.UpdateQuery{
		Table:     model.UsersTable,
		Set:       updateValues(upd, r.stamp(existing)),
		Where:     store.Eq(model.ColumnID, id),
		Returning: model.UserColumns,
	})
	if err != nil {
		if sqlerr.IsUniqueViolation(err, model.ColumnEmail) {
			return model.User{}, errs.Conflict(op, "email already exists", err)
		}
		return model.User{}, errs.StoreFailure(op, err)
	}

	// The row was deleted between the existence check and the write.
	if len(rows) == 0 {
		return model.User{}, errs.NotFound(op, "user not found")
	}

	return rows[0], nil
}

// DeleteUser removes the user with id and returns its reduced projection.
// A missing user is an errs.KindNotFound error and issues no delete.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) (model.DeletedUser, error) {
	const op = "DeleteUser"

	deleted, err := r.deleteUser(ctx, op, id)
	if err != nil {
		r.sink.Error(ctx, fmt.Sprintf("error deleting user %d", id), err)
		return model.DeletedUser{}, err
	}

	r.sink.Info(ctx, fmt.Sprintf("User %s deleted successfully", deleted.Email))
	return deleted, nil
}

func (r *UserRepository) deleteUser(ctx context.Context, op string, id int64) (model.DeletedUser, error) {
	if _, err := r.findOne(ctx, op, store.Eq(model.ColumnID, id)); err != nil {
		return model.DeletedUser{}, err
	}

	rows, err := r.db.Delete(ctx, store.DeleteQuery{
		Table:     model.UsersTable,
		Where:     store.Eq(model.ColumnID, id),
		Returning: model.DeletedUserColumns,
	})
	if err != nil {
		return model.DeletedUser{}, errs.StoreFailure(op, err)
	}

	// The row was deleted by someone else after the existence check.
	if len(rows) == 0 {
		return model.DeletedUser{}, errs.NotFound(op, "user not found")
	}

	return rows[0].Deleted(), nil
}

// findOne is the single existence check every operation goes through.
// It does not log; callers record the failure once.
func (r *UserRepository) findOne(ctx context.Context, op string, where store.Predicate) (model.User, error) {
	rows, err := r.db.Select(ctx, store.SelectQuery{
		Table:   model.UsersTable,
		Columns: model.UserColumns,
		Where:   &where,
		Limit:   1,
	})
	if err != nil {
		return model.User{}, errs.StoreFailure(op, err)
	}

	if len(rows) == 0 {
		return model.User{}, errs.NotFound(op, "user not found")
	}

	return rows[0], nil
}

// emailTaken reports whether any row already uses email.
func (r *UserRepository) emailTaken(ctx context.Context, op, email string) (bool, error) {
	_, err := r.findOne(ctx, op, store.Eq(model.ColumnEmail, email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// stamp returns the updated_at for a write to u, never earlier than its
// created_at.
func (r *UserRepository) stamp(u model.User) time.Time {
	now := r.now()
	if now.Before(u.CreatedAt) {
		return u.CreatedAt
	}
	return now
}

// updateValues merges the present fields of upd with the new updated_at.
func updateValues(upd model.UserUpdate, now time.Time) map[string]any {
	values := map[string]any{
		model.ColumnUpdatedAt: now,
	}

	if upd.Name != nil {
		values[model.ColumnName] = *upd.Name
	}
	if upd.Email != nil {
		values[model.ColumnEmail] = *upd.Email
	}
	if upd.Role != nil {
		values[model.ColumnRole] = *upd.Role
	}

	return values
}
