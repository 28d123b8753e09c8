package scanning

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// defaultRemoteConfidence is used when the cloud response carries no score
const defaultRemoteConfidence = 0.8

// Vision implements the Engine interface using the Google Cloud Vision API
type Vision struct {
	service *vision.Service
}

// NewVision creates a new Vision engine instance. Extra client options are
// appended after the API key, so tests can point the engine at a fake
// endpoint.
func NewVision(apiKey string, opts ...option.ClientOption) (*Vision, error) {
	if apiKey == "" && len(opts) == 0 {
		return nil, fmt.Errorf("vision api key is required")
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+1)
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := vision.NewService(context.Background(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision service: %w", err)
	}

	return &Vision{service: service}, nil
}

// Name identifies the engine in logs
func (v *Vision) Name() string {
	return "vision"
}

// Recognize runs cloud text detection on a card image. The image travels as
// plain base64 content, never as a data URL. The first annotation in the
// response aggregates the whole transcription; the rest are per-word boxes.
func (v *Vision) Recognize(ctx context.Context, png []byte) (RecognizedText, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(png)},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return RecognizedText{}, fmt.Errorf("annotating image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return RecognizedText{}, fmt.Errorf("no response from vision API")
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return RecognizedText{}, fmt.Errorf("vision API error: %s", annotation.Error.Message)
	}
	if len(annotation.TextAnnotations) == 0 {
		// Nothing readable in the image; the recognizer decides what
		// that means
		return RecognizedText{Provider: ProviderRemote}, nil
	}

	full := annotation.TextAnnotations[0]
	confidence := full.Score
	if confidence <= 0 {
		confidence = defaultRemoteConfidence
	}

	return RecognizedText{
		Text:       full.Description,
		Confidence: confidence,
		Provider:   ProviderRemote,
	}, nil
}

// Close closes the engine (no-op for the REST client)
func (v *Vision) Close() error {
	return nil
}
