package pkg

import (
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html

// IsSchemaMissingError reports a store that is reachable but not migrated:
// undefined table / database on postgres, "no such table" on sqlite.
func IsSchemaMissingError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pgconn.PgError
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01" || pqErr.Code == "3D000"
	}
	return strings.Contains(err.Error(), "no such table")
}

// IsConnectionError reports failures to reach the store at all.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pgconn.PgError
	if errors.As(err, &pqErr) {
		// class 08: connection exception
		return strings.HasPrefix(pqErr.Code, "08")
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return strings.Contains(err.Error(), "unable to open database file")
}
