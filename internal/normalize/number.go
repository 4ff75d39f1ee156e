package normalize

import (
	"strconv"
	"strings"
)

// Integer keeps the digits of raw plus a leading minus sign.
func Integer(raw string) *int64 {
	trimmed := strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	parsed, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
