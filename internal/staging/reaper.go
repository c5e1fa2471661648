package staging

import (
	"context"
	"time"

	"LotusLedger/internal/session"
)

// Reaper expires upload sessions that were never confirmed and removes
// their blobs.
type Reaper struct {
	Sessions *session.Manager
	Blobs    BlobStore
	MaxAge   time.Duration
}

type ReapResult struct {
	Sessions int
	Orphans  int
	Errors   []error
}

// Run removes expired sessions and, for disk-backed staging, files no
// session references any more.
func (r *Reaper) Run(ctx context.Context) ReapResult {
	var res ReapResult
	for _, s := range r.Sessions.Reap(r.MaxAge) {
		res.Sessions++
		if err := r.Blobs.Delete(ctx, s.Ref); err != nil {
			res.Errors = append(res.Errors, err)
		}
	}
	if disk, ok := r.Blobs.(*DiskStore); ok {
		n, err := disk.Sweep(r.MaxAge, r.Sessions.Refs())
		res.Orphans = n
		if err != nil {
			res.Errors = append(res.Errors, err)
		}
	}
	return res
}
