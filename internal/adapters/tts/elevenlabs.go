// Package tts adapts external text-to-speech providers to the
// domain.SpeechSynthesizer port. Synthesis failures are non-fatal for
// callers: the text result is still returned and audio is omitted.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io"

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	baseURL string
	http    *http.Client
}

// NewElevenLabsClient creates a SpeechSynthesizer backed by the
// ElevenLabs text-to-speech API.
func NewElevenLabsClient(apiKey, voiceID string, timeout time.Duration) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is required")
	}
	if voiceID == "" {
		return nil, fmt.Errorf("ElevenLabs voice id is required")
	}
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize implements domain.SpeechSynthesizer.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building synthesis request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs synthesize: unexpected status %d", res.StatusCode)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}
