package importer

import (
	"context"
	"errors"
	"log"

	"LotusLedger/internal/checksum"
	"LotusLedger/internal/models"
	"LotusLedger/internal/session"
	"LotusLedger/internal/staging"
	"LotusLedger/internal/tabular"
)

// PreviewRows is how many leading rows a staged upload echoes back.
const PreviewRows = 10

var (
	errNothingStaged = &models.ValidationError{Message: "No file to import. Upload again."}
	errStagedChanged = &models.ValidationError{Message: "Staged file changed since upload. Upload again."}
)

// Preview describes a staged upload awaiting confirmation.
type Preview struct {
	session.Session
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Total   int                 `json:"total_rows"`
	Missing []string            `json:"missing_columns,omitempty"`
}

// Stager runs the two-step import: Stage parks the upload, Confirm applies
// it.
type Stager struct {
	importer *Importer
	sessions *session.Manager
	blobs    staging.BlobStore
}

func NewStager(im *Importer, sessions *session.Manager, blobs staging.BlobStore) *Stager {
	return &Stager{importer: im, sessions: sessions, blobs: blobs}
}

// Stage parses the upload for a preview and keeps its bytes under
// sessionID, minting a new session when sessionID is blank. A file already
// staged under that session is discarded.
func (s *Stager) Stage(ctx context.Context, sessionID, filename string, data []byte) (Preview, error) {
	t, err := ReadFile(filename, data)
	if err != nil {
		return Preview{}, err
	}
	ext := tabular.Ext(filename)
	key := staging.NewKey(ext)
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return Preview{}, err
	}
	cur, prev := s.sessions.Stage(session.Session{
		ID:       sessionID,
		Ref:      key,
		Filename: filename,
		Ext:      ext,
		Checksum: checksum.Sum(data),
	})
	if prev != nil {
		if err := s.blobs.Delete(ctx, prev.Ref); err != nil {
			log.Printf("[ERROR] discard staged file %s: %v", prev.Ref, err)
		}
	}
	return Preview{
		Session: cur,
		Columns: t.Columns,
		Rows:    t.Preview(PreviewRows),
		Total:   t.Len(),
		Missing: t.Missing(StagedColumns...),
	}, nil
}

// Confirm imports the file staged under sessionID. The session and its file
// are gone afterwards whether or not the import succeeds.
func (s *Stager) Confirm(ctx context.Context, sessionID string) (Summary, error) {
	sess, ok := s.sessions.Take(sessionID)
	if !ok {
		return Summary{}, errNothingStaged
	}
	defer func() {
		if err := s.blobs.Delete(ctx, sess.Ref); err != nil {
			log.Printf("[ERROR] remove staged file %s: %v", sess.Ref, err)
		}
	}()

	data, err := s.blobs.Get(ctx, sess.Ref)
	if errors.Is(err, staging.ErrBlobNotFound) {
		return Summary{}, errNothingStaged
	}
	if err != nil {
		return Summary{}, err
	}
	if ok, err := checksum.NewMatcher(sess.Checksum).Match(data); err != nil || !ok {
		return Summary{}, errStagedChanged
	}
	t, err := ReadFile(sess.Filename, data)
	if err != nil {
		return Summary{}, err
	}
	return s.importer.ImportStaged(ctx, t)
}
