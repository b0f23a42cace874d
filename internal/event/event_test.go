package event

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestRecentReturnsTailOldestFirst(t *testing.T) {
	var l Log
	for i := 0; i < 15; i++ {
		l.Append(New(TypeSave, fmt.Sprintf("event %d", i), "💰"))
	}

	recent := l.Recent(10)
	if len(recent) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(recent))
	}
	if recent[0].Message != "event 5" || recent[9].Message != "event 14" {
		t.Fatalf("wrong tail: first %q last %q", recent[0].Message, recent[9].Message)
	}
	if l.Len() != 15 {
		t.Fatalf("Recent must not drop entries, have %d", l.Len())
	}
}

func TestRecentOnShortLog(t *testing.T) {
	var l Log
	l.Append(New(TypeBake, "only one", "🥐"))
	recent := l.Recent(10)
	if len(recent) != 1 || recent[0].Message != "only one" {
		t.Fatalf("unexpected tail: %+v", recent)
	}
}

func TestUnsavedTracksFlushes(t *testing.T) {
	var l Log
	l.Append(New(TypeSave, "a", "💰"))
	l.Append(New(TypeSave, "b", "💰"))
	if got := l.Unsaved(); len(got) != 2 {
		t.Fatalf("expected 2 unsaved, got %d", len(got))
	}

	l.MarkSaved()
	if got := l.Unsaved(); len(got) != 0 {
		t.Fatalf("expected none unsaved after flush, got %d", len(got))
	}

	l.Append(New(TypeSave, "c", "💰"))
	got := l.Unsaved()
	if len(got) != 1 || got[0].Message != "c" {
		t.Fatalf("expected only the new entry, got %+v", got)
	}
}

func TestLogJSONRoundTrip(t *testing.T) {
	var l Log
	l.Append(WithData(TypeBake, "Baked bread!", "🥐", map[string]any{"coins_earned": 5}))

	raw, err := json.Marshal(&l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored Log
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.Len() != 1 {
		t.Fatalf("expected one entry, got %d", restored.Len())
	}
	if got := restored.Recent(1)[0]; got.Message != "Baked bread!" || got.Type != TypeBake {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if len(restored.Unsaved()) != 0 {
		t.Fatalf("restored entries must count as saved")
	}
}

func TestEventStringFormat(t *testing.T) {
	e := New(TypeStress, "warning", "⚠️")
	if e.String() != "⚠️  warning" {
		t.Fatalf("unexpected format: %q", e.String())
	}
}
