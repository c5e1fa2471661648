package logger

import (
	"archive/zip"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStartWritesAuditLines(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerService(map[string]interface{}{"folder_path": dir})
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l.LogAudit("imported bills")
	current := l.CurrentLog()
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	data, err := os.ReadFile(current)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[AUDIT] imported bills") {
		t.Fatalf("log got=%q", data)
	}
}

func TestRotateWhenOverLimit(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerService(map[string]interface{}{"folder_path": dir, "max_file_mb": 1})
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()
	first := l.CurrentLog()
	l.maxFileBytes = 16
	log.Println("more than sixteen bytes of output")
	l.now = func() time.Time { return time.Now().Add(time.Second) }
	if err := l.rotateIfNeeded(); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if l.CurrentLog() == first {
		t.Fatalf("log not rotated: %s", first)
	}
}

func TestZipOldLogs(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerService(map[string]interface{}{"folder_path": dir, "retention_days": 7})
	old := filepath.Join(dir, "ledger_old.log")
	fresh := filepath.Join(dir, "ledger_new.log")
	_ = os.WriteFile(old, []byte("old"), 0644)
	_ = os.WriteFile(fresh, []byte("new"), 0644)
	stale := time.Now().AddDate(0, 0, -30)
	_ = os.Chtimes(old, stale, stale)

	n, err := l.zipAndCleanOldLogs()
	if err != nil || n != 1 {
		t.Fatalf("archived got=%d err=%v want=1", n, err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("old log still present: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh log removed: %v", err)
	}
	zips, _ := filepath.Glob(filepath.Join(dir, "logs_*.zip"))
	if len(zips) != 1 {
		t.Fatalf("zips got=%v", zips)
	}
	zr, err := zip.OpenReader(zips[0])
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != "ledger_old.log" {
		t.Fatalf("zip entries got=%d", len(zr.File))
	}
}
