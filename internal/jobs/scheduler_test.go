package jobs

import (
	"context"
	"testing"
	"time"

	"LotusLedger/internal/session"
	"LotusLedger/internal/staging"
)

func TestReapOnceRemovesExpiredSession(t *testing.T) {
	disk, err := staging.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	sessions := session.NewManager()
	ctx := context.Background()
	_ = disk.Put(ctx, "a.csv", []byte("Client\n"))
	sessions.Stage(session.Session{ID: "s1", Ref: "a.csv", UploadedAt: time.Now().Add(-3 * time.Hour)})

	sum := reapOnce(&staging.Reaper{Sessions: sessions, Blobs: disk, MaxAge: time.Hour})
	if sum.Sessions != 1 || sum.Errors != 0 {
		t.Fatalf("reap got=%+v", sum)
	}
	if sessions.Len() != 0 {
		t.Fatalf("sessions left got=%d want=0", sessions.Len())
	}
}

func TestRunReaperSchedulerRejectsBadSchedule(t *testing.T) {
	disk, _ := staging.NewDiskStore(t.TempDir())
	r := &staging.Reaper{Sessions: session.NewManager(), Blobs: disk}
	if _, err := RunReaperScheduler(&ReaperConfig{Schedule: "not a schedule"}, r); err == nil {
		t.Fatalf("bad schedule accepted")
	}
	c, err := RunReaperScheduler(&ReaperConfig{Schedule: "@every 1h", MaxAge: 30 * time.Minute}, r)
	if err != nil {
		t.Fatalf("RunReaperScheduler: %v", err)
	}
	defer c.Stop()
	if r.MaxAge != 30*time.Minute || len(c.Entries()) != 1 {
		t.Fatalf("reaper max age got=%s entries=%d", r.MaxAge, len(c.Entries()))
	}
}
