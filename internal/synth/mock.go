package synth

import "context"

// MockEngine is a test generator with scripted output.
type MockEngine struct {
	Clip  []byte
	Err   error
	Calls int
	Texts []string
}

// Synthesize records the request and returns the scripted clip or error.
func (e *MockEngine) Synthesize(_ context.Context, text string) ([]byte, error) {
	e.Calls++
	e.Texts = append(e.Texts, text)
	if e.Err != nil {
		return nil, e.Err
	}
	if e.Clip != nil {
		return e.Clip, nil
	}
	return EncodeWAV([]byte(text), 22050, 1), nil
}
