package tts

import "context"

// MockSynthesizer returns a fixed byte payload; used in local mode and
// tests.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("mock-audio"), nil
}
