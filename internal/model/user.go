// Package model holds the row and projection types shared between
// the store and repository layers.
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a row of the users table.
//
// A projection only populates the columns it selected; every projection
// this module issues selects all six columns.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// UserUpdate is a partial update. A nil field is left untouched.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// DeletedUser is the reduced projection returned after a delete.
type DeletedUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Column names of the users table.
const (
	ColumnID        = "id"
	ColumnName      = "name"
	ColumnEmail     = "email"
	ColumnRole      = "role"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// UsersTable is the table user rows live in.
const UsersTable = "users"

var (
	// UserColumns is the full projection returned by reads and updates.
	UserColumns = []string{ColumnID, ColumnName, ColumnEmail, ColumnRole, ColumnCreatedAt, ColumnUpdatedAt}

	// DeletedUserColumns is the projection returned by deletes.
	DeletedUserColumns = []string{ColumnID, ColumnName, ColumnEmail, ColumnRole}
)

// Deleted reduces u to the delete projection.
func (u User) Deleted() DeletedUser {
	return DeletedUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
