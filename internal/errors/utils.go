package errors

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// error categories for classification
const (
	CategoryDatabase = "database"
	CategoryNetwork  = "network"
	CategoryNotFound = "not_found"
	CategoryTimeout  = "timeout"
	CategoryUpstream = "upstream"
	CategoryUnknown  = "unknown"
)

// analyzes an error and returns its category
func Classify(err error) string {
	if err == nil {
		return CategoryUnknown
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return CategoryDatabase
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return CategoryNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTimeout
	}

	// fallback to string matching for unknown error types
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return CategoryTimeout
	case strings.Contains(msg, "not found") || strings.Contains(msg, "no rows"):
		return CategoryNotFound
	case strings.Contains(msg, "database") || strings.Contains(msg, "sql") ||
		strings.Contains(msg, "postgres") || strings.Contains(msg, "pgx"):
		return CategoryDatabase
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") ||
		strings.Contains(msg, "dial"):
		return CategoryNetwork
	case strings.Contains(msg, "api") || strings.Contains(msg, "status"):
		return CategoryUpstream
	}

	return CategoryUnknown
}

// sanitizes error messages for production so upstream/database detail never leaks to clients
func Sanitize(err error) string {
	if err == nil {
		return ""
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		return err.Error()
	}

	switch Classify(err) {
	case CategoryDatabase:
		return "database operation failed"
	case CategoryNetwork:
		return "connection error occurred"
	case CategoryTimeout:
		return "request timed out"
	case CategoryNotFound:
		return "resource not found"
	case CategoryUpstream:
		return "upstream service error"
	}

	return "an error occurred"
}
