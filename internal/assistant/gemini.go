package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

var errEmptyResponse = errors.New("modelden boş yanıt geldi")

// GenerateReply - Tek seferlik Gemini çağrısı. Retry yok; hata üst
// katmanda 500'e çevrilir.
func GenerateReply(ctx context.Context, apiKey string, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}

	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", errEmptyResponse
	}

	return reply, nil
}
