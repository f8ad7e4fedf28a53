// Package instance provides a stable, hashed identity for this Fieldnote
// deployment. The identity keys license cache entries and is reported to the
// licensing server; the raw install ID never leaves the machine.
package instance

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// identityFile is the filename persisted in the data directory.
const identityFile = ".instance_id"

// Identity describes this deployment to the licensing subsystem.
type Identity struct {
	// ID is the SHA-256 hex digest of the persisted install ID.
	ID string

	// CreatedAt is when the install ID was first generated.
	CreatedAt time.Time
}

// Load reads the install ID from dataDir, generating and persisting a new one
// on first run, and returns the hashed identity.
func Load(dataDir string) Identity {
	raw, createdAt := getOrCreateInstallID(dataDir)
	return Identity{
		ID:        hashID(raw),
		CreatedAt: createdAt,
	}
}

func hashID(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// getOrCreateInstallID reads or generates a random install ID in dataDir.
// The file's modification time doubles as the instance creation time.
func getOrCreateInstallID(dataDir string) (string, time.Time) {
	p := filepath.Join(dataDir, identityFile)

	if data, err := os.ReadFile(p); err == nil {
		id := string(bytes.TrimSpace(data))
		if _, err := uuid.Parse(id); err == nil {
			createdAt := time.Now()
			if info, err := os.Stat(p); err == nil {
				createdAt = info.ModTime()
			}
			return id, createdAt
		}
		// Invalid content — regenerate.
	}

	id := uuid.New().String()
	now := time.Now()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		log.Warn().Err(err).Str("dir", dataDir).Msg("Failed to create data directory for install ID")
		return id, now
	}
	if err := os.WriteFile(p, []byte(id+"\n"), 0600); err != nil {
		log.Warn().Err(err).Str("path", p).Msg("Failed to persist install ID")
		// Still use the generated ID for this session.
	}
	return id, now
}
