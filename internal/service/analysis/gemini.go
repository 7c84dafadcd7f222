package analysis

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const systemInstruction = `You are an advanced visual analysis and decision system for online casino games.
Interpret only the IMAGE you are given and give rational, mathematical guidance.
No superstition. Ask no questions. Be cold and quantitative.

Extract: game name, provider, slot type, bet, balance, currency, session state.
Provide the mathematical action plan (stop-loss, take-profit, exit conditions).`

const userPrompt = "Analyse this game screen following your quantitative analyst instructions. Reply with structured JSON."

var errEmptyReply = errors.New("empty model reply")

// Generator отправляет снимок экрана модели и возвращает сырой JSON ответа
type Generator interface {
	Generate(ctx context.Context, image []byte, mimeType string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator - генератор поверх Gemini API
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(userPrompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errEmptyReply
	}
	return text, nil
}

// responseSchema - все поля обязательны, как в model.AnalysisResult
func responseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"visualDiagnosis":  str(),
			"technicalReading": str(),
			"sessionState":     str(),
			"actionPlan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"spinBudget":     str(),
					"stopLoss":       str(),
					"takeProfit":     str(),
					"exitConditions": {Type: genai.TypeArray, Items: str()},
				},
				Required: []string{"spinBudget", "stopLoss", "takeProfit", "exitConditions"},
			},
			"directInstruction": str(),
		},
		Required: []string{"visualDiagnosis", "technicalReading", "sessionState", "actionPlan", "directInstruction"},
	}
}
