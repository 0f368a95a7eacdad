package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainConfig   = "ffbuilder/config/v1"
	DomainDatabase = "ffbuilder/database/v1"
	DomainArtifact = "ffbuilder/artifact/v1"
	DomainBuild    = "ffbuilder/build/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Config hashes a configuration's canonical form (see config.Config.Canonical).
func Config(canonical map[string]any) (string, error) {
	data, err := MarshalCanonical(canonical)
	if err != nil {
		return "", fmt.Errorf("config digest: %w", err)
	}
	return hashWithDomain(DomainConfig, data), nil
}

// Database hashes a database document as raw bytes.
func Database(document []byte) string {
	return hashWithDomain(DomainDatabase, document)
}

// Artifact hashes a rendered document together with its file name, so the
// same bytes under two names get different digests.
func Artifact(name string, content []byte) string {
	sum := sha256.Sum256(content)
	data, err := MarshalCanonical(map[string]any{
		"name":    name,
		"content": hex.EncodeToString(sum[:]),
	})
	if err != nil {
		// Only strings go in; MarshalCanonical cannot fail here.
		panic(fmt.Sprintf("artifact digest: %v", err))
	}
	return hashWithDomain(DomainArtifact, data)
}

// Build combines the config, database and artifact digests into one build
// identity. artifacts must be in set order.
func Build(configDigest, databaseDigest string, artifacts []string) (string, error) {
	data, err := MarshalCanonical(map[string]any{
		"config":    configDigest,
		"database":  databaseDigest,
		"artifacts": artifacts,
	})
	if err != nil {
		return "", fmt.Errorf("build digest: %w", err)
	}
	return hashWithDomain(DomainBuild, data), nil
}
