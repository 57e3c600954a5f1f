package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row does not exist or is not owned by the
// caller. Scoped lookups never distinguish the two.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique index rejected the write.
var ErrDuplicate = errors.New("duplicate")

// ErrStaleState is returned by conditional updates whose precondition no
// longer holds, e.g. a request that already left pendente.
var ErrStaleState = errors.New("stale state")

// ErrInvalidValue rejects a write carrying a value outside its enumeration.
var ErrInvalidValue = errors.New("invalid value")

// isUniqueViolation recognizes unique-index failures across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value violates unique constraint")
}
