package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ybae45/chopchop/internal/parsing"
)

const geminiTimeout = 60 * time.Second

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Scanner instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// ReadText transcribes a receipt image
func (g *Gemini) ReadText(imageData []byte, contentType string) (string, error) {
	pngData, err := toPNG(imageData, contentType)
	if err != nil {
		return "", err
	}

	// genai.ImageData takes the format suffix, not the MIME type
	text, err := g.generate(genai.ImageData("png", pngData), genai.Text(transcribePrompt))
	if err != nil {
		return "", err
	}
	return cleanTranscript(text)
}

// AnalyzeEntities asks the model for the named entities in receipt text
func (g *Gemini) AnalyzeEntities(text string) ([]parsing.Entity, error) {
	resp, err := g.generate(genai.Text(entityPrompt + text))
	if err != nil {
		return nil, err
	}

	entities, err := parseEntitiesJSON(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing entities: %w", err)
	}
	return entities, nil
}

func (g *Gemini) generate(parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), geminiTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
