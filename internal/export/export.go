// Package export produces JSON snapshots of a principal's visible notes and
// stores them in an S3-compatible bucket.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/s3client"
)

// SchemaVersion identifies the snapshot layout. Bump on breaking changes.
const SchemaVersion = 1

const snapshotContentType = "application/json; charset=utf-8"

// Snapshot is the document written to object storage.
type Snapshot struct {
	SchemaVersion int          `json:"schema_version"`
	Principal     string       `json:"principal"`
	GeneratedAt   time.Time    `json:"generated_at"`
	NoteCount     int          `json:"note_count"`
	Notes         []notes.Note `json:"notes"`
}

// Job describes a completed export.
type Job struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Exporter snapshots visible notes to object storage. A nil S3 client means
// exports are disabled; Run reports Unavailable in that case.
type Exporter struct {
	notes *notes.Service
	s3    *s3client.Client
}

// New creates an exporter. s3 may be nil when object storage is not configured.
func New(svc *notes.Service, s3 *s3client.Client) *Exporter {
	return &Exporter{notes: svc, s3: s3}
}

// Enabled reports whether object storage is configured.
func (e *Exporter) Enabled() bool {
	return e.s3 != nil
}

// snapshotKey returns the object storage key for an export.
// Format: exports/{principal}/{job_id}.json
func snapshotKey(principal, jobID string) string {
	return fmt.Sprintf("exports/%s/%s.json", principal, jobID)
}

// Run snapshots every note the principal can see and uploads it as a single
// JSON object. The snapshot reflects one consistent read of the store.
func (e *Exporter) Run(ctx context.Context, principal string) (*Job, error) {
	if e.s3 == nil {
		return nil, errs.New(errs.Unavailable, "object storage is not configured")
	}
	if principal == "" {
		return nil, errs.New(errs.InvalidArgument, "principal is required")
	}

	visible, err := e.notes.ListVisible(ctx, principal, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := Snapshot{
		SchemaVersion: SchemaVersion,
		Principal:     principal,
		GeneratedAt:   now,
		NoteCount:     len(visible),
		Notes:         make([]notes.Note, 0, len(visible)),
	}
	for _, n := range visible {
		snapshot.Notes = append(snapshot.Notes, *n)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to encode snapshot", err)
	}

	jobID := uuid.NewString()
	key := snapshotKey(principal, jobID)
	if err := e.s3.PutObject(ctx, key, data, snapshotContentType); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to store snapshot", err)
	}

	log.Printf("[EXPORT] Stored snapshot key=%s notes=%d", key, snapshot.NoteCount)

	return &Job{
		ID:        jobID,
		Key:       key,
		URL:       e.s3.ObjectURL(key),
		NoteCount: snapshot.NoteCount,
		CreatedAt: now,
	}, nil
}

// History lists the keys of the principal's previous exports.
func (e *Exporter) History(ctx context.Context, principal string) ([]string, error) {
	if e.s3 == nil {
		return nil, errs.New(errs.Unavailable, "object storage is not configured")
	}
	if principal == "" {
		return nil, errs.New(errs.InvalidArgument, "principal is required")
	}
	keys, err := e.s3.ListKeys(ctx, fmt.Sprintf("exports/%s/", principal))
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to list snapshots", err)
	}
	return keys, nil
}
