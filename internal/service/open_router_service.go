package service

import (
	"context"
	"fmt"

	"github.com/adityadeoche/interview-iq-ai-sub001/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type OpenRouterServiceInterface interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenRouterService is the fallback grading oracle, used when no Gemini key
// is configured.
type OpenRouterService struct {
	APIKey string
	Model  string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &OpenRouterService{
		APIKey: cfg.APIKey,
		Model:  model,
		client: resty.New(),
	}
}

func (s *OpenRouterService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": s.Model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an AI interviewer grading candidate screening rounds. Always answer with the exact JSON schema you are given."},
				{"role": "user", "content": prompt},
			},
		}).
		Post("https://openrouter.ai/api/v1/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter returned status %d", resp.StatusCode())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
