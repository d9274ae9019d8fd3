package synth

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"voxhook/internal/logging"
)

// PiperEngine shells out to the piper binary for each request. Piper loads
// its ONNX model per process, which is why voxhook caches aggressively
// instead of synthesizing on the hot path.
type PiperEngine struct {
	Binary     string
	ModelPath  string
	SampleRate int

	logger *slog.Logger
}

// NewPiperEngine constructs a piper-backed generator.
func NewPiperEngine(binary, modelPath string, sampleRate int, logger *slog.Logger) *PiperEngine {
	return &PiperEngine{
		Binary:     binary,
		ModelPath:  modelPath,
		SampleRate: sampleRate,
		logger:     logging.NewComponentLogger(logger, "piper"),
	}
}

// Synthesize runs piper with --output-raw and wraps the PCM stream as WAV.
func (e *PiperEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrGenerationFailed)
	}
	if e.ModelPath == "" {
		return nil, fmt.Errorf("%w: no piper model configured", ErrGenerationFailed)
	}
	if _, err := os.Stat(e.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: piper model %q: %v", ErrGenerationFailed, e.ModelPath, err)
	}

	cmd := exec.CommandContext(ctx, e.Binary, "--model", e.ModelPath, "--output-raw")
	cmd.Stdin = bytes.NewBufferString(text + "\n")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("synthesizing",
		logging.String("model", e.ModelPath),
		logging.Int("text_len", len(text)))

	pcm, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: piper: %v: %s", ErrGenerationFailed, err, detail)
		}
		return nil, fmt.Errorf("%w: piper: %v", ErrGenerationFailed, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: piper produced no audio", ErrGenerationFailed)
	}

	return EncodeWAV(pcm, e.SampleRate, 1), nil
}

// Available reports whether the piper binary can be invoked.
func (e *PiperEngine) Available() bool {
	_, err := exec.LookPath(e.Binary)
	return err == nil
}
