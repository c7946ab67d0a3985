package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const systemPrompt = "You are a professional cryptocurrency investment advisor with extensive knowledge of digital assets, market trends, and risk management strategies."

// ChatModel is the subset of an eino chat model the generator needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// LLMConfig configures the OpenAI-compatible chat model.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// LLMGenerator asks a chat model to comment on the ranked assets.
type LLMGenerator struct {
	model ChatModel
	name  string
}

// NewLLMGenerator wraps an existing chat model.
func NewLLMGenerator(m ChatModel, name string) *LLMGenerator {
	return &LLMGenerator{model: m, name: name}
}

// NewOpenAIGenerator builds a generator on the eino OpenAI chat model.
func NewOpenAIGenerator(ctx context.Context, cfg LLMConfig) (*LLMGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return NewLLMGenerator(chatModel, "openai"), nil
}

func (g *LLMGenerator) Name() string { return g.name }

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	msg, err := g.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(BuildPrompt(req)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", errors.New("chat completion: empty response")
	}
	return text, nil
}

// BuildPrompt renders the investor profile and the ranked assets for the model.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("As a cryptocurrency investment expert, review the following ranked investment recommendations.\n\n")
	b.WriteString("Investment Profile:\n")
	fmt.Fprintf(&b, "- Strategy: %s (%s, %s)\n", req.Strategy.Name, req.Strategy.RiskLevel, req.Strategy.TimeHorizon)
	fmt.Fprintf(&b, "- Risk Tolerance: %s\n", orUnknown(req.Investor.RiskTolerance))
	fmt.Fprintf(&b, "- Investment Amount: $%s\n", thousands(req.Investor.InvestmentAmount))
	fmt.Fprintf(&b, "- Time Horizon: %s\n", orUnknown(req.Investor.TimeHorizon))
	fmt.Fprintf(&b, "- Experience Level: %s\n\n", orUnknown(req.Investor.Experience))

	b.WriteString("Ranked assets:\n")
	for _, r := range req.Recommendations {
		c := r.Crypto
		fmt.Fprintf(&b, "%d. %s (%s) - $%s | score %.1f | 7d %+.1f%% | 30d %+.1f%% | risk %s | target $%s\n",
			r.Rank, c.Name, c.Symbol, thousands(c.CurrentPrice), r.InvestmentScore,
			c.PriceChange7d, c.PriceChange30d, r.RiskLevel, thousands(r.TargetPrice))
	}
	if len(req.Recommendations) == 0 {
		b.WriteString("(no assets matched the strategy)\n")
	}
	b.WriteString("\nFor each asset give a 2-3 sentence view on why now, the main risk and whether the target is realistic. ")
	b.WriteString("Tailor the advice to the risk tolerance and investment amount.")
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
