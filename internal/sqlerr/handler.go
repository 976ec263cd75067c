package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/users-service/internal/errs"
)

// uniqueKeyPattern matches "<table>_<column>_key" / "<table>_<column>_ukey".
var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_u?key$`)

// ErrCode reports the Code of the first Postgres error in err's chain,
// or Other if there is none.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsUniqueViolation reports whether err is a unique violation on column.
// An empty column matches a unique violation on any column.
//
// The column is inferred from the constraint name, so it only works for
// constraints named after the conventions uniqueColumn understands
// (Postgres' default "users_email_key" included).
func IsUniqueViolation(err error, column string) bool {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) || MapCode(pgerr.Code) != UniqueViolation {
		return false
	}
	if column == "" {
		return true
	}
	return strings.EqualFold(uniqueColumn(pgerr.ConstraintName), column)
}

// violationActions names the suffix of the generated code per violation.
var violationActions = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
}

// errorCode builds "<ENTITY>_<ACTION>" from the violated table,
// e.g. a unique violation on users gives USER_ALREADY_EXISTS.
func errorCode(e *Error) string {
	domain := "RECORD"
	if e.TableName != "" {
		domain = strings.ToUpper(singular(e.TableName))
	}

	action, ok := violationActions[e.Code]
	if !ok {
		action = "ERROR"
	}
	return domain + "_" + action
}

// clientMessage is safe to show to API clients. It never includes the
// driver message.
func clientMessage(e *Error) string {
	field := humanize(e.ColumnName)

	switch e.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName(e))
	case UniqueViolation:
		what := "identifier"
		if column := uniqueColumn(e.ConstraintName); column != "" {
			what = humanize(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName(e), what)
	case NotNullViolation:
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		if field == "" {
			return "One or more values do not meet required conditions"
		}
		return fmt.Sprintf("The %s value does not meet required conditions", field)
	default:
		return "An error occurred while processing your request"
	}
}

// entityName prefers a foreign key column ("user_id" -> "User") over the
// singular table name.
func entityName(e *Error) string {
	column := strings.ToLower(e.ColumnName)

	switch {
	case strings.HasSuffix(column, "_id"):
		return humanize(strings.TrimSuffix(column, "_id"))
	case e.TableName != "":
		return humanize(singular(e.TableName))
	default:
		return "record"
	}
}

func singular(name string) string {
	if len(name) > 1 && strings.HasSuffix(strings.ToLower(name), "s") {
		return name[:len(name)-1]
	}
	return name
}

// humanize turns snake_case into Title Case: "first_name" -> "First Name".
func humanize(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// uniqueColumn infers the column from a unique constraint named
// "unique_<table>_<column>" or "<table>_<column>_key" (Postgres' default).
func uniqueColumn(constraint string) string {
	if rest, ok := strings.CutPrefix(constraint, "unique_"); ok {
		if i := strings.LastIndexByte(rest, '_'); i >= 0 {
			return rest[i+1:]
		}
	}

	if m := uniqueKeyPattern.FindStringSubmatch(constraint); m != nil {
		return m[1]
	}
	return ""
}

// HandleError converts any error returned by the repository into an
// *errs.HTTPError for the request layer.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - errs NotFound / Conflict kinds: 404 / 409
//   - pgconn.PgError (also when wrapped as a store failure): 400 for
//     constraint violations, 500 otherwise
//   - ErrNoRows: 404
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if mapped := errs.FromKind(err); mapped != nil {
		return mapped
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		code := errorCode(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(clientMessage(sqlErr), false, &code, nil)
		case UniqueViolation, CheckViolation:
			return errs.NewBadRequestError(clientMessage(sqlErr), true, &code, nil)
		case NotNullViolation:
			fieldErrors := []errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: "is required"}}
			return errs.NewBadRequestError(clientMessage(sqlErr), true, &code, fieldErrors)
		default:
			// Unknown DB errors must not leak details to clients.
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
