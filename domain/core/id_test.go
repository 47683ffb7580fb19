package core

import "testing"

func TestNewID_UniqueAndNonEmpty(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("NewID returned empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestParseAnalysisID(t *testing.T) {
	id, err := ParseAnalysisID("abc-123")
	if err != nil {
		t.Fatalf("ParseAnalysisID failed: %v", err)
	}
	if id.String() != "abc-123" {
		t.Errorf("got %s, want abc-123", id)
	}

	if _, err := ParseAnalysisID("   "); err == nil {
		t.Error("expected error for blank analysis ID")
	}
}

func TestParseDatasetID(t *testing.T) {
	if _, err := ParseDatasetID(""); err == nil {
		t.Error("expected error for empty dataset ID")
	}
	id, err := ParseDatasetID("ds-1")
	if err != nil || id.String() != "ds-1" {
		t.Errorf("ParseDatasetID = %v, %v", id, err)
	}
}
