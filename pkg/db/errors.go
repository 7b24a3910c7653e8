package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. Postgres names the violated constraint in its message; SQLite
// only lists the columns, so the constraint name is treated as an extra
// signal rather than a requirement.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
