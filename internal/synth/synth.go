// Package synth defines the speech generator boundary and its engines.
//
// The core never waits on generation: callers either find a clip in the cache
// or spawn a detached process that runs an engine and inserts the result for
// next time. Engines return complete WAV bytes so the cache and player never
// care which engine produced a clip.
package synth

import (
	"context"
	"errors"
)

// ErrGenerationFailed wraps any engine failure. Callers recover by leaving
// the cache miss unresolved and falling back to a stub clip.
var ErrGenerationFailed = errors.New("speech generation failed")

// Generator turns text into playable WAV bytes.
type Generator interface {
	// Synthesize renders text to a complete WAV file in memory.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
