// Package fingerprint derives the content-addressed keys used by the audio
// cache. Identical text (and voice) always maps to the same fingerprint, which
// is what makes generation idempotent across racing invocations.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hexLength is the number of hex characters kept from the digest. Sixteen is
// short enough for filenames and long enough that collisions are not a
// practical concern at cache capacity.
const hexLength = 16

// New returns the fingerprint of the given text.
func New(text string) string {
	return digest(normalize(text))
}

// WithVoice returns the fingerprint of text rendered by a specific voice or
// engine. Changing the voice changes the key so a voice switch never serves
// stale audio.
func WithVoice(text, voice string) string {
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice == "" {
		return New(text)
	}
	return digest(voice + "\x00" + normalize(text))
}

// Project returns the fingerprint for a spoken project name. Project clips
// live in the same cache as message clips; the prefix keeps the keyspaces
// apart.
func Project(name string) string {
	return New("project:" + strings.TrimSpace(name))
}

// ArtifactName returns the cache filename for a fingerprint.
func ArtifactName(fp string) string {
	return fp + ".wav"
}

func normalize(text string) string {
	return strings.TrimSpace(text)
}

func digest(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:hexLength]
}
