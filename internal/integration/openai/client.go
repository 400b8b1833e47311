package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/catalogia/pim_go_server/config"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultVisionModel = "gpt-4o"
	DefaultTimeout     = 60 * time.Second
)

var ErrAPIKeyNotSet = errors.New("OpenAI API key não configurada")

// Client encapsula as chamadas de geração de conteúdo.
// Sem retry: falha de transporte é tratada como falha do passo pela pipeline.
type Client struct {
	client      openai.Client
	model       string
	visionModel string
	temperature float64
	timeout     time.Duration
}

func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	timeout := DefaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		client:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		visionModel: visionModel,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

func (c *Client) ModelName() string {
	return c.model
}

// GenerateText gera texto a partir de um prompt de sistema + usuário
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

// AnalyzeImages envia as URLs das imagens do produto para o modelo de visão
func (c *Client) AnalyzeImages(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(imageURLs)+1)
	parts = append(parts, openai.TextContentPart(prompt))
	for _, url := range imageURLs {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: url,
		}))
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
