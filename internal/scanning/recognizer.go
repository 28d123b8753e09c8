package scanning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoText is returned when neither engine finds enough text in the image
// to be worth classifying. It is a per-scan condition: callers should ask
// for a better photo, not retry the same bytes.
var ErrNoText = errors.New("no text detected in image")

const (
	// minTextLength is the minimum trimmed transcription length for a
	// scan to count as successful
	minTextLength = 3

	// defaultRemoteTimeout bounds the cloud call so a slow provider
	// cannot stall the fallback path
	defaultRemoteTimeout = 20 * time.Second
)

// Recognizer orchestrates a remote OCR engine with a local fallback. The
// remote engine runs first; a remote failure or an unusable transcription
// falls through to the local engine. Failover is invisible to callers
// beyond the Provider tag on the result, and no path is retried more than
// once.
type Recognizer struct {
	remote        Engine
	local         Engine
	remoteTimeout time.Duration
}

// NewRecognizer creates a Recognizer with the default remote timeout
func NewRecognizer(remote, local Engine) *Recognizer {
	return NewRecognizerWithTimeout(remote, local, defaultRemoteTimeout)
}

// NewRecognizerWithTimeout creates a Recognizer with an explicit remote
// timeout. A zero timeout leaves the cloud call bounded only by the
// caller's context.
func NewRecognizerWithTimeout(remote, local Engine, remoteTimeout time.Duration) *Recognizer {
	return &Recognizer{
		remote:        remote,
		local:         local,
		remoteTimeout: remoteTimeout,
	}
}

// Recognize extracts text from a card image or PDF. The image is normalized
// to PNG once and handed to the remote engine, then to the local engine if
// the remote attempt fails or yields nothing usable. A scan succeeds when
// the trimmed transcription is at least minTextLength characters.
func (r *Recognizer) Recognize(ctx context.Context, imageData []byte, contentType string) (RecognizedText, error) {
	png, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return RecognizedText{}, err
	}

	result, remoteErr := r.recognizeRemote(ctx, png)
	if remoteErr == nil && usableText(result.Text) {
		return clampConfidence(result), nil
	}
	if remoteErr != nil {
		slog.Warn("Remote OCR failed, falling back to local engine",
			"engine", r.remote.Name(),
			"error", remoteErr,
		)
	} else {
		slog.Warn("Remote OCR found no usable text, falling back to local engine",
			"engine", r.remote.Name(),
		)
	}

	result, localErr := r.local.Recognize(ctx, png)
	if localErr != nil {
		if remoteErr != nil {
			return RecognizedText{}, fmt.Errorf("remote engine: %v; local engine: %w", remoteErr, localErr)
		}
		return RecognizedText{}, fmt.Errorf("local engine: %w", localErr)
	}
	if !usableText(result.Text) {
		return RecognizedText{}, ErrNoText
	}

	return clampConfidence(result), nil
}

// recognizeRemote runs the remote engine under the configured timeout
func (r *Recognizer) recognizeRemote(ctx context.Context, png []byte) (RecognizedText, error) {
	if r.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.remoteTimeout)
		defer cancel()
	}
	return r.remote.Recognize(ctx, png)
}

// Close closes both engines
func (r *Recognizer) Close() error {
	var errs []error
	if err := r.remote.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing remote engine: %w", err))
	}
	if err := r.local.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing local engine: %w", err))
	}
	return errors.Join(errs...)
}

// usableText reports whether a transcription is long enough to classify
func usableText(text string) bool {
	return len(strings.TrimSpace(text)) >= minTextLength
}

// clampConfidence forces the confidence into 0..1 regardless of what an
// engine reported
func clampConfidence(result RecognizedText) RecognizedText {
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result
}
