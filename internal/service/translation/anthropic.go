package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"manuals/internal/domain"
	manualSvc "manuals/internal/domain/services/manual"
)

const systemPrompt = `You translate technical assembly manuals.
You receive a JSON array of strings and must answer with a JSON array of the same length,
where element i is the translation of input element i.
Keep HTML tags, attributes, entities, component codes and numbers exactly as they are.
Answer with the JSON array only.`

// Provider translates text with Anthropic (Claude) models.
type Provider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewProvider creates a new Anthropic translator with the given API key.
func NewProvider(apiKey, model string, logger *slog.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if !strings.HasPrefix(model, "claude-") {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", model)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client:    &client,
		model:     model,
		maxTokens: 8192,
		logger:    logger,
	}, nil
}

// Translate sends the batch as a JSON array and expects one back.
func (p *Provider) Translate(ctx context.Context, req *manualSvc.TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	payload, err := json.Marshal(req.Texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode texts: %w", err)
	}

	source := req.SourceLanguage
	if source == "" {
		source = "the source language"
	}
	prompt := fmt.Sprintf("Translate from %s to %s:\n%s", source, req.TargetLanguage, payload)

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}

	out, err := ParseResponse(text.String(), len(req.Texts))
	if err != nil {
		return nil, err
	}

	p.logger.Debug("translation batch completed",
		"target", req.TargetLanguage,
		"strings", len(out),
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
	)

	return out, nil
}

// ParseResponse extracts the JSON array from a model answer, tolerating a
// surrounding code fence or prose.
func ParseResponse(text string, want int) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("translation response contains no JSON array")
	}

	var out []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(out) != want {
		return nil, fmt.Errorf("translation response has %d strings, expected %d", len(out), want)
	}
	return out, nil
}

// Disabled is the translator used when no API key is configured.
type Disabled struct{}

func (Disabled) Translate(context.Context, *manualSvc.TranslateRequest) ([]string, error) {
	return nil, fmt.Errorf("machine translation is not configured: %w", domain.ErrUnavailable)
}
