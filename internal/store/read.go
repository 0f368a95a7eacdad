package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrBuildNotFound is returned by ReadBuild for an unknown ID.
var ErrBuildNotFound = errors.New("build not found")

const buildColumns = `seq, id, config_digest, database_digest, build_digest, status, error_code, error_message, created_at`

// ReadBuilds returns recorded builds, oldest first. A positive limit keeps
// only the most recent limit builds.
//
// Returns an empty slice (not nil) if the history is empty.
func (s *Store) ReadBuilds(ctx context.Context, limit int) ([]Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY seq ASC, id COLLATE BINARY ASC`
	args := []any{}
	if limit > 0 {
		query = `SELECT * FROM (SELECT ` + buildColumns + ` FROM builds ORDER BY seq DESC LIMIT ?)
			ORDER BY seq ASC, id COLLATE BINARY ASC`
		args = append(args, limit)
	}
	return s.queryBuilds(ctx, query, args...)
}

// ReadBuildsByDigest returns every build whose output digest equals
// buildDigest, oldest first.
func (s *Store) ReadBuildsByDigest(ctx context.Context, buildDigest string) ([]Build, error) {
	return s.queryBuilds(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE build_digest = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, buildDigest)
}

// ReadBuild returns one build and its artifacts in position order.
func (s *Store) ReadBuild(ctx context.Context, id string) (Build, []ArtifactRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, nil, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	if err != nil {
		return Build{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, key, file_name, digest, size
		FROM artifacts
		WHERE build_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Build{}, nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []ArtifactRecord{}
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.Position, &a.Key, &a.FileName, &a.Digest, &a.Size); err != nil {
			return Build{}, nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return Build{}, nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return b, artifacts, nil
}

func (s *Store) queryBuilds(ctx context.Context, query string, args ...any) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	var status, created string
	err := row.Scan(&b.Seq, &b.ID, &b.ConfigDigest, &b.DatabaseDigest, &b.BuildDigest,
		&status, &b.ErrorCode, &b.ErrorMessage, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Build{}, err
		}
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	b.Status = Status(status)
	b.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Build{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return b, nil
}
