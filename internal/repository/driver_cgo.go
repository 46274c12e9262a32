//go:build cgo_sqlite

package repository

// cgo build: the C SQLite amalgamation via mattn/go-sqlite3.
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver in use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)

// fileDSN builds the DSN for an on-disk database. Pragmas are applied by the
// driver on every new connection in the pool.
func fileDSN(path string, busyTimeoutMs int) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeoutMs))
	params.Set("_journal_mode", "WAL")
	return "file:" + path + "?" + params.Encode()
}

// memoryDSN builds the DSN for a named, shared in-memory database
func memoryDSN(name string, busyTimeoutMs int) string {
	params := url.Values{}
	params.Set("mode", "memory")
	params.Set("cache", "shared")
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeoutMs))
	return "file:" + name + "?" + params.Encode()
}

// isUniqueViolation reports whether err is a primary key or unique constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return true
	}
	return false
}
