package scanning

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// tessClient is the subset of the gosseract client the engine uses,
// extracted so tests can substitute a fake
type tessClient interface {
	SetImageFromBytes(data []byte) error
	SetLanguage(languages ...string) error
	Text() (string, error)
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
	Close() error
}

// Tesseract implements the Engine interface using a local Tesseract
// installation. A fresh client is created per recognition so concurrent
// scans never share native state.
type Tesseract struct {
	language  string
	newClient func() tessClient
	progress  func(float64)
}

// NewTesseract creates a new Tesseract engine instance. The language hint
// defaults to "eng".
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		language: language,
		newClient: func() tessClient {
			return gosseract.NewClient()
		},
	}
}

// SetProgress registers an advisory progress callback invoked with coarse
// stage values in 0..1 as recognition advances. It only drives UI feedback
// and must be set before the engine is shared between goroutines.
func (t *Tesseract) SetProgress(fn func(float64)) {
	t.progress = fn
}

// Name identifies the engine in logs
func (t *Tesseract) Name() string {
	return "tesseract"
}

// Recognize extracts text from a PNG image. Tesseract reports per-word
// confidences on a 0-100 scale, so the mean is divided by 100 to match the
// normalized range.
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (RecognizedText, error) {
	if err := ctx.Err(); err != nil {
		return RecognizedText{}, err
	}

	t.report(0)

	client := t.newClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return RecognizedText{}, fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return RecognizedText{}, fmt.Errorf("loading image: %w", err)
	}
	t.report(0.5)

	text, err := client.Text()
	if err != nil {
		return RecognizedText{}, fmt.Errorf("extracting text: %w", err)
	}

	confidence := meanWordConfidence(client)
	t.report(1)

	return RecognizedText{
		Text:       text,
		Confidence: confidence,
		Provider:   ProviderLocal,
	}, nil
}

// meanWordConfidence averages Tesseract's per-word confidences (0-100) and
// scales the result down to 0..1
func meanWordConfidence(client tessClient) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}

	var sum float64
	for _, box := range boxes {
		sum += box.Confidence
	}
	return sum / float64(len(boxes)) / 100
}

func (t *Tesseract) report(stage float64) {
	if t.progress != nil {
		t.progress(stage)
	}
}

// Close closes the engine. Clients are created per recognition, so there is
// nothing to release here.
func (t *Tesseract) Close() error {
	return nil
}
