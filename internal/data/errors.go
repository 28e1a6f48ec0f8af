package data

import "strings"

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver does not expose a stable error type for this, so the
// check matches the message text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
