package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a code plus the message shown to the user.
type ErrorInfo struct {
	Code    string
	Message string
}

// PostgreSQL SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError converts a store error into a code and message. Store failures
// are surfaced with the underlying message so the user sees what went wrong,
// except for connectivity failures which would leak hostnames.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return parsePgError(pgErr)
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	// SQLite (tests) and drivers that only expose text.
	switch {
	case strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key"):
		return parseDuplicateKeyError(errLower)
	case strings.Contains(errLower, "foreign key constraint"):
		return ErrorInfo{Code: ResourceConflict, Message: errStr}
	case strings.Contains(errLower, "not null constraint") || strings.Contains(errLower, "violates not-null constraint"):
		return ErrorInfo{Code: ValidationRequired, Message: errStr}
	case strings.Contains(errLower, "check constraint"):
		return ErrorInfo{Code: ValidationInvalidInput, Message: errStr}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Could not reach the record store. Please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalDatabaseError,
		Message: errStr,
	}
}

func parsePgError(pgErr *pgconn.PgError) ErrorInfo {
	switch pgErr.Code {
	case pgUniqueViolation:
		return parseDuplicateKeyError(strings.ToLower(pgErr.ConstraintName + " " + pgErr.Message))
	case pgForeignKeyViolation:
		return ErrorInfo{Code: ResourceConflict, Message: pgErr.Message}
	case pgNotNullViolation:
		if pgErr.ColumnName != "" {
			return ErrorInfo{Code: ValidationRequired, Message: pgErr.ColumnName + " is required"}
		}
		return ErrorInfo{Code: ValidationRequired, Message: pgErr.Message}
	case pgCheckViolation:
		return ErrorInfo{Code: ValidationInvalidInput, Message: pgErr.Message}
	default:
		return ErrorInfo{Code: InternalDatabaseError, Message: pgErr.Message}
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "An account with this email already exists",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "vendor"):
		return "Vendor profile not found"
	case strings.Contains(contextLower, "profile"), strings.Contains(contextLower, "role"):
		return "User profile not found"
	case strings.Contains(contextLower, "account"), strings.Contains(contextLower, "user"):
		return "Account not found"
	}
	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "save"), strings.Contains(contextLower, "create"):
		return "Saving failed. Please try again"
	case strings.Contains(contextLower, "update"):
		return "Update failed. Please try again"
	case strings.Contains(contextLower, "load"), strings.Contains(contextLower, "list"):
		return "Loading failed. Please try again"
	}
	return "Something went wrong. Please try again"
}

// ParseAndRespond parses err and writes it as an ErrorResponse.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
