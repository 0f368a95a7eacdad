package store

import (
	"context"
	"fmt"
	"time"
)

// WriteBuild inserts a build and its artifacts in one transaction and
// returns the assigned seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same build ID
// twice keeps the first record and returns its seq.
func (s *Store) WriteBuild(ctx context.Context, b Build, artifacts []ArtifactRecord) (int64, error) {
	if b.ID == "" {
		return 0, fmt.Errorf("write build: id required")
	}
	if b.Status != StatusSucceeded && b.Status != StatusFailed {
		return 0, fmt.Errorf("write build: invalid status %q", b.Status)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write build: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO builds
		(id, config_digest, database_digest, build_digest, status, error_code, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		b.ConfigDigest,
		b.DatabaseDigest,
		b.BuildDigest,
		string(b.Status),
		b.ErrorCode,
		b.ErrorMessage,
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("write build: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("write build: rows affected: %w", err)
	}

	if rows > 0 {
		for _, a := range artifacts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO artifacts
				(build_id, position, key, file_name, digest, size)
				VALUES (?, ?, ?, ?, ?, ?)
			`, b.ID, a.Position, a.Key, a.FileName, a.Digest, a.Size)
			if err != nil {
				return 0, fmt.Errorf("write build: artifact %s: %w", a.Key, err)
			}
		}
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM builds WHERE id = ?`, b.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write build: query seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write build: commit: %w", err)
	}
	return seq, nil
}
