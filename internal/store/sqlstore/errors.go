package sqlstore

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/agentstation/satmap/pkg/errors"
)

// classify wraps a driver error as a StoreError whose kind is derived from
// the Postgres SQLSTATE class or the SQLite result code.
func classify(operation, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *errors.StoreError
	if stderrors.As(err, &se) {
		return err
	}
	return errors.NewStoreError(operation, table, kindOf(err), err)
}

func kindOf(err error) errors.StoreErrorKind {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgKind(pgErr.Code)
	}

	var liteErr sqlite3.Error
	if stderrors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			return errors.StoreErrorConstraint
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			return errors.StoreErrorPermission
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errors.StoreErrorConnectivity
		}
		return errors.StoreErrorUnknown
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case stderrors.As(err, &connErr), stderrors.As(err, &netErr), stderrors.Is(err, driver.ErrBadConn):
		return errors.StoreErrorConnectivity
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.StoreErrorConnectivity
	}
	return errors.StoreErrorUnknown
}

// pgKind maps a SQLSTATE code to a store error kind.
func pgKind(code string) errors.StoreErrorKind {
	code = strings.TrimSpace(code)
	switch {
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P"):
		return errors.StoreErrorConnectivity // connection exception, admin shutdown
	case code == "42501", strings.HasPrefix(code, "28"):
		return errors.StoreErrorPermission // insufficient privilege, invalid authorization
	case strings.HasPrefix(code, "23"):
		return errors.StoreErrorConstraint // integrity constraint violation
	}
	return errors.StoreErrorUnknown
}
