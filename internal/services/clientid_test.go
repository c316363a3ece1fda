package services

import (
	"encoding/json"
	"testing"
)

func TestClientRefUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		pending bool
		id      string
	}{
		{"null id", `null`, true, ""},
		{"empty id", `""`, true, ""},
		{"temp placeholder", `"temp-1699999999-0"`, true, ""},
		{"persisted id", `"2f8a1c34-9f1e-4a7b-8d12-3c45e6f7a8b9"`, false, "2f8a1c34-9f1e-4a7b-8d12-3c45e6f7a8b9"},
		{"non-uuid id", `"legacy-17"`, false, "legacy-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref ClientRef
			if err := json.Unmarshal([]byte(tt.payload), &ref); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if ref.Pending() != tt.pending {
				t.Errorf("Pending() = %v, want %v", ref.Pending(), tt.pending)
			}
			if ref.ID() != tt.id {
				t.Errorf("ID() = %q, want %q", ref.ID(), tt.id)
			}
		})
	}
}

func TestClientRefUnmarshalRejectsNonString(t *testing.T) {
	var ref ClientRef
	if err := json.Unmarshal([]byte(`42`), &ref); err == nil {
		t.Fatal("expected error for numeric id")
	}
}

func TestClientRefResolve(t *testing.T) {
	existing := map[string]bool{"known-id": true}

	id, isNew := PersistedRef("known-id").Resolve(existing)
	if isNew || id != "known-id" {
		t.Errorf("known id resolved to (%q, %v), want (known-id, false)", id, isNew)
	}

	// A stale id from a previous save is new again, its value is discarded
	id, isNew = PersistedRef("stale-id").Resolve(existing)
	if !isNew {
		t.Error("stale id should resolve as new")
	}
	if id == "stale-id" || id == "" {
		t.Errorf("stale id should get a fresh identifier, got %q", id)
	}

	id, isNew = PendingRef().Resolve(existing)
	if !isNew || id == "" {
		t.Errorf("pending ref resolved to (%q, %v), want fresh id and true", id, isNew)
	}
}

func TestClientRefMarshal(t *testing.T) {
	b, err := json.Marshal(PendingRef())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("pending ref marshals to %s, want null", b)
	}

	b, err = json.Marshal(PersistedRef("abc"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"abc"` {
		t.Errorf("persisted ref marshals to %s, want \"abc\"", b)
	}
}
