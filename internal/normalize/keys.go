package normalize

import "strings"

// Key is the matching form of a natural key.
func Key(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Truthy reads spreadsheet yes/no spellings.
func Truthy(raw string) bool {
	switch Key(raw) {
	case "1", "y", "yes", "true", "t", "x", "fleet":
		return true
	}
	return false
}
