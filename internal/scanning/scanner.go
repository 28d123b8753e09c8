package scanning

import "context"

// Provider identifies which OCR path produced a recognition result
type Provider string

const (
	// ProviderRemote marks results from the cloud engine
	ProviderRemote Provider = "remote"
	// ProviderLocal marks results from the on-host fallback engine
	ProviderLocal Provider = "local"
)

// RecognizedText contains the transcription extracted from a card image
type RecognizedText struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"` // Normalized to 0..1
	Provider   Provider `json:"provider"`
}

// Engine defines the interface for a single OCR engine. Engines receive
// PNG image data and report confidence already scaled to 0..1.
type Engine interface {
	// Name identifies the engine in logs
	Name() string
	// Recognize extracts text from a PNG image
	Recognize(ctx context.Context, png []byte) (RecognizedText, error)
	// Close closes the engine and releases resources
	Close() error
}

// TextRecognizer defines the interface for card text recognition operations
type TextRecognizer interface {
	// Recognize extracts text from a card image or PDF
	Recognize(ctx context.Context, imageData []byte, contentType string) (RecognizedText, error)
	// Close closes the recognizer and releases resources
	Close() error
}
