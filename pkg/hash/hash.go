package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLen is the hex length of a Fingerprint.
const FingerprintLen = 12

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first prefixLen characters of SHA256(input).
func Prefix(input string, prefixLen int) string {
	full := SHA256Hex(input)
	if prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// Fingerprint is a short, irreversible tag for secrets and client IPs.
// It lets logs correlate requests without ever holding the raw value.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	return Prefix(secret, FingerprintLen)
}
