// Package transcription turns staged audio into text through a chain of
// providers with graceful degradation.
package transcription

import (
	"context"
	"time"
)

// Provider ceilings and timeouts. Both providers are Whisper-class APIs with
// a 25 MiB upload limit; the constants stay separate so they can diverge.
const (
	PrimaryMaxBytes   = 25 << 20
	SecondaryMaxBytes = 25 << 20

	PrimaryTimeout   = 120 * time.Second
	SecondaryTimeout = 180 * time.Second
)

// Provider is one external speech-to-text capability. Each attempt is made
// at most once; failures signal the chain to fail over, not retry.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// MaxBytes is the provider's documented upload ceiling.
	MaxBytes() int64
	// Transcribe converts the staged audio file to plain text.
	Transcribe(ctx context.Context, audioPath, titleHint string) (string, error)
}
