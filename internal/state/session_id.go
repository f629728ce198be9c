package state

import "github.com/danieljhkim/appcomposer/internal/hash"

// shortIDLen is the prefix length shown to users.
const shortIDLen = 12

// ComputeSessionID derives the session ID for a project from its
// fingerprint and absolute root path.
func ComputeSessionID(projectFingerprint, projectPath string) string {
	return hash.NewSHA256Hasher().HashBytes([]byte(projectFingerprint + "|" + projectPath))
}

// ShortID abbreviates a session ID for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
