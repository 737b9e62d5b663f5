package contract

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleArtifact = `{
  "host_to_guest": {
    "room:update": {
      "lights": {"type": "string"}
    }
  },
  "guest_to_host": {
    "pet:state": {
      "sleeping": {"type": "boolean"},
      "mood": {"type": "string", "optional": true}
    }
  }
}`

func TestLoadTables(t *testing.T) {
	tables, err := LoadTables([]byte(sampleArtifact))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema, ok := tables.GuestToHost.Lookup("pet:state")
	if !ok {
		t.Fatal("expected pet:state schema")
	}
	if schema["sleeping"].Type != TypeBoolean || schema["sleeping"].Optional {
		t.Fatalf("unexpected sleeping field: %#v", schema["sleeping"])
	}
	if !schema["mood"].Optional {
		t.Fatal("expected mood to be optional")
	}

	if _, ok := tables.HostToGuest.Lookup("room:update"); !ok {
		t.Fatal("expected room:update schema")
	}
}

func TestLoadTablesRejectsBadJSON(t *testing.T) {
	if _, err := LoadTables([]byte(`{not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadTablesRejectsUnknownTypeTag(t *testing.T) {
	artifact := `{"guest_to_host": {"pet:state": {"hunger": {"type": "decimal"}}}}`
	if _, err := LoadTables([]byte(artifact)); err == nil {
		t.Fatal("expected unknown type tag to be rejected")
	}
}

func TestLoadTablesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	if err := os.WriteFile(path, []byte(sampleArtifact), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tables, err := LoadTablesFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tables.GuestToHost.Lookup("pet:state"); !ok {
		t.Fatal("expected pet:state schema")
	}

	if _, err := LoadTablesFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
