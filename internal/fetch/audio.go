package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/podcast-growth/internal/types"
)

// AudioTimeout bounds the whole audio download, which can be a large file on
// a slow CDN.
const AudioTimeout = 5 * time.Minute

// ErrAudioTooLarge indicates the remote audio exceeds the hard acquisition
// ceiling. This is a terminal input error, distinct from provider failures.
type ErrAudioTooLarge struct {
	URL      string
	Limit    int64
	Observed int64
}

func (e *ErrAudioTooLarge) Error() string {
	return fmt.Sprintf("audio at %s exceeds the %d byte limit (observed %d)", e.URL, e.Limit, e.Observed)
}

// Acquirer downloads episode audio into a local staging directory.
type Acquirer struct {
	StagingDir string
	MaxBytes   int64
	UserAgent  string
}

// NewAcquirer builds an audio acquirer with the given staging directory and
// size ceiling.
func NewAcquirer(stagingDir string, maxBytes int64) *Acquirer {
	return &Acquirer{
		StagingDir: stagingDir,
		MaxBytes:   maxBytes,
		UserAgent:  DefaultUserAgent,
	}
}

// Acquire streams the audio at audioURL to a staging file. The returned
// release function deletes the staged file and must be called on every exit
// path, including errors downstream.
func (a *Acquirer) Acquire(ctx context.Context, audioURL string) (types.AudioAsset, func(), error) {
	noop := func() {}

	client := &http.Client{Timeout: AudioTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return types.AudioAsset{}, noop, &Error{URL: audioURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return types.AudioAsset{}, noop, &Error{URL: audioURL, Message: "audio download failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.AudioAsset{}, noop, &Error{
			URL:     audioURL,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	// Reject early when the server declares an oversized payload.
	if resp.ContentLength > 0 && resp.ContentLength > a.MaxBytes {
		return types.AudioAsset{}, noop, &ErrAudioTooLarge{
			URL:      audioURL,
			Limit:    a.MaxBytes,
			Observed: resp.ContentLength,
		}
	}

	staged, err := os.CreateTemp(a.StagingDir, "episode-*"+stagingExt(resp.Header.Get("Content-Type")))
	if err != nil {
		return types.AudioAsset{}, noop, &Error{URL: audioURL, Message: "failed to create staging file", Cause: err}
	}
	path := staged.Name()
	release := func() { _ = os.Remove(path) }

	// Copy at most MaxBytes+1 so undeclared oversized bodies are caught
	// without buffering the whole file in memory.
	written, err := io.Copy(staged, io.LimitReader(resp.Body, a.MaxBytes+1))
	closeErr := staged.Close()
	if err != nil {
		release()
		return types.AudioAsset{}, noop, &Error{URL: audioURL, Message: "failed to stage audio", Cause: err}
	}
	if closeErr != nil {
		release()
		return types.AudioAsset{}, noop, &Error{URL: audioURL, Message: "failed to finalize staging file", Cause: closeErr}
	}
	if written > a.MaxBytes {
		release()
		return types.AudioAsset{}, noop, &ErrAudioTooLarge{URL: audioURL, Limit: a.MaxBytes, Observed: written}
	}

	asset := types.AudioAsset{
		ByteSize:      written,
		ContentType:   contentTypeOr(resp.Header.Get("Content-Type"), "audio/mpeg"),
		StorageHandle: audioURL,
		LocalPath:     path,
	}
	return asset, release, nil
}

// StageUpload writes already-received bytes (a direct upload) into the
// staging directory, applying the same size ceiling as remote acquisition.
func (a *Acquirer) StageUpload(r io.Reader, contentType string) (types.AudioAsset, func(), error) {
	noop := func() {}

	staged, err := os.CreateTemp(a.StagingDir, "upload-*"+stagingExt(contentType))
	if err != nil {
		return types.AudioAsset{}, noop, &Error{URL: "(upload)", Message: "failed to create staging file", Cause: err}
	}
	path := staged.Name()
	release := func() { _ = os.Remove(path) }

	written, err := io.Copy(staged, io.LimitReader(r, a.MaxBytes+1))
	closeErr := staged.Close()
	if err != nil {
		release()
		return types.AudioAsset{}, noop, &Error{URL: "(upload)", Message: "failed to stage upload", Cause: err}
	}
	if closeErr != nil {
		release()
		return types.AudioAsset{}, noop, &Error{URL: "(upload)", Message: "failed to finalize staging file", Cause: closeErr}
	}
	if written > a.MaxBytes {
		release()
		return types.AudioAsset{}, noop, &ErrAudioTooLarge{URL: "(upload)", Limit: a.MaxBytes, Observed: written}
	}

	asset := types.AudioAsset{
		ByteSize:      written,
		ContentType:   contentTypeOr(contentType, "audio/mpeg"),
		StorageHandle: filepath.Base(path),
		LocalPath:     path,
	}
	return asset, release, nil
}

// UploadName returns a collision-free blob name for an uploaded episode.
func UploadName(suppliedTitle string) string {
	base := "episode"
	if suppliedTitle != "" {
		base = sanitizeName(suppliedTitle)
	}
	return fmt.Sprintf("%s-%s.mp3", base, uuid.New().String())
}

func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "episode"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return string(out)
}

func stagingExt(contentType string) string {
	switch contentType {
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".mp3"
	}
}

func contentTypeOr(ct, fallback string) string {
	if ct == "" {
		return fallback
	}
	return ct
}
