package store

import (
	"time"

	"github.com/roach88/ffbuilder/internal/artifact"
)

// Status is the outcome of a recorded build.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Build is one row of build history.
type Build struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	ConfigDigest   string    `json:"config_digest"`
	DatabaseDigest string    `json:"database_digest"`
	BuildDigest    string    `json:"build_digest,omitempty"`
	Status         Status    `json:"status"`
	ErrorCode      string    `json:"error_code,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ArtifactRecord describes one document a build produced. Content is not
// stored; the digest identifies it.
type ArtifactRecord struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Digest   string `json:"digest"`
	Size     int64  `json:"size"`
}

// Records converts a built set into history rows, keeping set order.
func Records(set *artifact.Set) []ArtifactRecord {
	if set == nil {
		return nil
	}
	all := set.All()
	out := make([]ArtifactRecord, len(all))
	for i, a := range all {
		out[i] = ArtifactRecord{
			Position: i,
			Key:      a.Key,
			FileName: a.FileName,
			Digest:   a.Digest,
			Size:     int64(len(a.Content)),
		}
	}
	return out
}
