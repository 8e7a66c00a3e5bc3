package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicate reports whether err is a uniqueness-constraint violation.
//
// The pipeline leans on this to tell "already ingested" apart from real
// store failures. GORM's TranslateError covers the common case; the string
// checks catch wrapped driver errors that lose the sentinel (Postgres
// SQLSTATE 23505, SQLite "UNIQUE constraint failed").
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// IsNotFound reports whether err means the looked-up row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
