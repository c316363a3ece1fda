package services

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// tempIDPrefix marks client-local placeholder identifiers for entities that
// have not been persisted yet.
const tempIDPrefix = "temp-"

// ClientRef is an identifier as submitted by a client: either a candidate for
// an existing row, or a pending placeholder awaiting allocation. Decoding
// happens at the API boundary so the reconciliation engines never sniff
// identifier strings themselves.
type ClientRef struct {
	id      string
	pending bool
}

// PendingRef returns a ref that always allocates a fresh identifier.
func PendingRef() ClientRef { return ClientRef{pending: true} }

// PersistedRef returns a ref carrying a candidate identifier.
func PersistedRef(id string) ClientRef { return ClientRef{id: id} }

// Pending reports whether the client marked this entity as not yet persisted.
func (r ClientRef) Pending() bool { return r.pending }

// ID returns the candidate identifier, empty for pending refs.
func (r ClientRef) ID() string { return r.id }

// Resolve decides whether the ref denotes a currently persisted row.
// Membership in existing is authoritative: an identifier left over from a
// previous save that is no longer stored is new again, regardless of shape.
// New entities are allocated a fresh identifier; the client-supplied
// placeholder is discarded.
func (r ClientRef) Resolve(existing map[string]bool) (id string, isNew bool) {
	if !r.pending && existing[r.id] {
		return r.id, false
	}
	return uuid.NewString(), true
}

func (r *ClientRef) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" || strings.HasPrefix(*s, tempIDPrefix) {
		*r = ClientRef{pending: true}
		return nil
	}
	*r = ClientRef{id: *s}
	return nil
}

func (r ClientRef) MarshalJSON() ([]byte, error) {
	if r.pending {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
