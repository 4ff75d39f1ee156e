// Package resolve holds the per-run natural-key lookup tables used to decide
// whether an incoming row updates an existing entity or creates a new one.
package resolve

import (
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/google/uuid"
)

// Index maps normalized natural keys to entity identifiers. It is owned by a
// single run and is not safe for concurrent use.
type Index struct {
	ids map[string]uuid.UUID
}

func New() *Index {
	return &Index{ids: make(map[string]uuid.UUID)}
}

// Resolve returns the identifier stored under the first non-empty key that is
// present, trying keys in the order given.
func (x *Index) Resolve(keys ...string) (uuid.UUID, bool) {
	for _, key := range keys {
		k := normalize.Key(key)
		if k == "" {
			continue
		}
		if id, ok := x.ids[k]; ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Register records id under every non-empty key. An existing mapping for a
// key is kept so the first entity to claim a key stays its owner.
func (x *Index) Register(id uuid.UUID, keys ...string) {
	for _, key := range keys {
		k := normalize.Key(key)
		if k == "" {
			continue
		}
		if _, taken := x.ids[k]; taken {
			continue
		}
		x.ids[k] = id
	}
}

// Len is the number of distinct keys held.
func (x *Index) Len() int {
	return len(x.ids)
}
