package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// cardTranscriptionPrompt asks the model for a verbatim transcription. All
// field extraction happens locally in the classifier, so the model must not
// interpret or reformat anything.
const cardTranscriptionPrompt = `Transcribe all text visible in this business card image.

Return the text exactly as printed, one output line per line on the card, top to bottom. Preserve the original spelling, capitalization and punctuation. Do not translate, do not summarize, do not add labels, headings or commentary. If the image contains no readable text, return an empty response.`

// Gemini implements the Engine interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini engine instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Name identifies the engine in logs
func (g *Gemini) Name() string {
	return "gemini"
}

// Recognize asks Gemini for a verbatim transcription of the card image.
// Gemini reports no recognition score, so results carry the default remote
// confidence.
func (g *Gemini) Recognize(ctx context.Context, png []byte) (RecognizedText, error) {
	parts := []genai.Part{
		genai.ImageData("png", png),
		genai.Text(cardTranscriptionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return RecognizedText{}, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return RecognizedText{}, fmt.Errorf("no response from gemini")
	}

	// Extract text response
	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return RecognizedText{
		Text:       strings.TrimSpace(responseText.String()),
		Confidence: defaultRemoteConfidence,
		Provider:   ProviderRemote,
	}, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
