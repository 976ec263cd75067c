package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/store"
)

// fakeExecutor is an in-memory users table.
//
// The *Fn hooks replace the default behaviour of one method when set.
type fakeExecutor struct {
	mu   sync.Mutex
	rows []model.User

	selects int
	updates int
	deletes int

	selectFn func(q store.SelectQuery) ([]model.User, error)
	updateFn func(q store.UpdateQuery) ([]model.User, error)
	deleteFn func(q store.DeleteQuery) ([]model.User, error)
}

func newFakeExecutor(rows ...model.User) *fakeExecutor {
	return &fakeExecutor{rows: append([]model.User(nil), rows...)}
}

func (f *fakeExecutor) Select(_ context.Context, q store.SelectQuery) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++

	if f.selectFn != nil {
		return f.selectFn(q)
	}

	out := make([]model.User, 0)
	for _, row := range f.rows {
		if q.Where != nil && !matches(row, *q.Where) {
			continue
		}
		out = append(out, row)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExecutor) Update(_ context.Context, q store.UpdateQuery) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++

	if f.updateFn != nil {
		return f.updateFn(q)
	}

	out := make([]model.User, 0, 1)
	for i, row := range f.rows {
		if !matches(row, q.Where) {
			continue
		}
		for column, value := range q.Set {
			switch column {
			case model.ColumnName:
				row.Name = value.(string)
			case model.ColumnEmail:
				row.Email = value.(string)
			case model.ColumnRole:
				row.Role = value.(string)
			case model.ColumnUpdatedAt:
				row.UpdatedAt = value.(time.Time)
			default:
				return nil, fmt.Errorf("fake: unexpected column %q", column)
			}
		}
		f.rows[i] = row
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeExecutor) Delete(_ context.Context, q store.DeleteQuery) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++

	if f.deleteFn != nil {
		return f.deleteFn(q)
	}

	out := make([]model.User, 0, 1)
	kept := f.rows[:0]
	for _, row := range f.rows {
		if matches(row, q.Where) {
			out = append(out, model.User{ID: row.ID, Name: row.Name, Email: row.Email, Role: row.Role})
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return out, nil
}

// row returns the stored row with id and whether it exists.
func (f *fakeExecutor) row(id int64) (model.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			return row, true
		}
	}
	return model.User{}, false
}

func matches(row model.User, p store.Predicate) bool {
	switch p.Column {
	case model.ColumnID:
		return row.ID == p.Value.(int64)
	case model.ColumnEmail:
		return row.Email == p.Value.(string)
	default:
		return false
	}
}

type sinkEntry struct {
	msg string
	err error
}

// recordingSink keeps everything it is given.
type recordingSink struct {
	mu     sync.Mutex
	infos  []string
	errors []sinkEntry
}

func (s *recordingSink) Info(_ context.Context, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
}

func (s *recordingSink) Error(_ context.Context, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, sinkEntry{msg: msg, err: err})
}
