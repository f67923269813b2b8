package transcription

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperProvider wraps a Whisper-compatible transcription endpoint. Both
// the fast primary and the accurate secondary speak the same multipart API,
// differing only in base URL, model and limits.
type WhisperProvider struct {
	name     string
	client   *openai.Client
	model    string
	maxBytes int64
	timeout  time.Duration
}

// NewWhisperProvider builds a provider for the given endpoint. An empty API
// key returns an error so the chain can be assembled without the provider.
func NewWhisperProvider(name, apiKey, baseURL, model string, maxBytes int64, timeout time.Duration) (*WhisperProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcription provider %s: API key not provided", name)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &WhisperProvider{
		name:     name,
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		maxBytes: maxBytes,
		timeout:  timeout,
	}, nil
}

// Name identifies the provider in logs.
func (p *WhisperProvider) Name() string { return p.name }

// MaxBytes is the provider's documented upload ceiling.
func (p *WhisperProvider) MaxBytes() int64 { return p.maxBytes }

// Transcribe uploads the staged audio and returns the plain-text transcript.
// The title hint primes the model with episode vocabulary.
func (p *WhisperProvider) Transcribe(ctx context.Context, audioPath, titleHint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.AudioRequest{
		Model:    p.model,
		FilePath: audioPath,
		Prompt:   titleHint,
		Format:   openai.AudioResponseFormatText,
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription API error (%s): %w", p.name, err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("transcription provider %s returned an empty transcript", p.name)
	}
	return resp.Text, nil
}
