// Package identity builds the deterministic external identifiers stamped on
// every imported record.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

// Row identifies the line-th data row (1-based) of an entity file in a run.
func Row(runID uuid.UUID, entity records.Entity, line int) string {
	return fmt.Sprintf("run:%s:%s:%d", runID, entity, line)
}

// Staff extends Row with a hash of the suggestion's content.
func Staff(runID uuid.UUID, line int, name, email, role string) string {
	return Row(runID, records.EntityStaff, line) + ":" + shortHash(strings.Join([]string{name, email, role}, "|"))
}

// JobLine identifies the single line written for an imported job.
func JobLine(jobExternalID string) string {
	return jobExternalID + ":line"
}

func shortHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:10]
}
