package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/maheshrc27/clipcast/configs"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

const openaiChatURL = "https://api.openai.com/v1/chat/completions"

const scriptSystemPrompt = `You are an expert short-form video scriptwriter. Always respond with valid JSON only.`

type ScriptGenerator interface {
	GenerateScript(ctx context.Context, ideaText, targetAudience string) (*transfer.ScriptPayload, error)
	ModelTag() string
}

type openaiService struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewOpenAIService(cfg config.Config) ScriptGenerator {
	return &openaiService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *openaiService) ModelTag() string {
	return "openai-" + s.cfg.OpenAIModel
}

func (s *openaiService) GenerateScript(ctx context.Context, ideaText, targetAudience string) (*transfer.ScriptPayload, error) {
	if s.cfg.OpenAIApiKey == "" {
		return nil, pipeline.Configurationf("OPENAI_API_KEY is not set")
	}

	prompt := fmt.Sprintf(`Create an engaging TikTok script for: %q`, ideaText)
	if targetAudience != "" {
		prompt += fmt.Sprintf("\nTarget audience: %s", targetAudience)
	}
	prompt += `

Requirements:
- Strong hook in first 3 seconds
- 45-60 seconds total duration
- Clear call-to-action
- Engaging and viral-worthy content

Format your response as JSON:
{"hook": "Opening hook text", "content": "Full script content", "cta": "Call to action", "duration": 60}`

	reqBody := transfer.ChatCompletionRequest{
		Model: s.cfg.OpenAIModel,
		Messages: []transfer.ChatMessage{
			{Role: "system", Content: scriptSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   2000,
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openaiChatURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("script generation request failed: %v", err)
	}
	defer resp.Body.Close()

	var result transfer.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("failed to decode script response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if result.Error != nil {
			msg = result.Error.Message
		}
		return nil, pipeline.Upstreamf("script generation returned %d: %s", resp.StatusCode, msg)
	}

	if len(result.Choices) == 0 {
		return nil, pipeline.Upstreamf("no choices in script response")
	}

	return ParseScriptPayload(result.Choices[0].Message.Content), nil
}

// ParseScriptPayload parses the model reply as JSON and falls back to a
// deterministic sentence-boundary split when the reply is malformed:
// first sentence becomes the hook, the last becomes the call to action.
func ParseScriptPayload(raw string) *transfer.ScriptPayload {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var payload transfer.ScriptPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.Content != "" {
		if payload.Duration <= 0 {
			payload.Duration = 60
		}
		return &payload
	}

	sentences := splitSentences(raw)
	payload = transfer.ScriptPayload{
		Content:  raw,
		Duration: 60,
	}
	if len(sentences) > 0 {
		payload.Hook = sentences[0]
		payload.CTA = sentences[len(sentences)-1]
	}
	return &payload
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
