package session

import (
	"testing"
	"time"
)

func TestStageReplacesPrevious(t *testing.T) {
	m := NewManager()
	first, prev := m.Stage(Session{Ref: "a", Filename: "one.csv"})
	if prev != nil || first.ID == "" {
		t.Fatalf("first stage got id=%q prev=%v", first.ID, prev)
	}
	second, prev := m.Stage(Session{ID: first.ID, Ref: "b", Filename: "two.csv"})
	if prev == nil || prev.Ref != "a" {
		t.Fatalf("replaced session got=%v want ref a", prev)
	}
	if m.Len() != 1 || second.Ref != "b" {
		t.Fatalf("len=%d ref=%s", m.Len(), second.Ref)
	}
	got, ok := m.Take(first.ID)
	if !ok || got.Filename != "two.csv" {
		t.Fatalf("take got=%v ok=%v", got, ok)
	}
	if _, ok := m.Take(first.ID); ok {
		t.Fatalf("session taken twice")
	}
}

func TestReap(t *testing.T) {
	m := NewManager()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.Stage(Session{ID: "old", Ref: "r1", UploadedAt: base.Add(-2 * time.Hour)})
	m.Stage(Session{ID: "new", Ref: "r2", UploadedAt: base.Add(-time.Minute)})

	reaped := m.Reap(time.Hour)
	if len(reaped) != 1 || reaped[0].ID != "old" {
		t.Fatalf("reaped got=%v", reaped)
	}
	if refs := m.Refs(); !refs["r2"] || refs["r1"] {
		t.Fatalf("refs got=%v", refs)
	}
}
