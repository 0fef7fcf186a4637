// Package ai generates construction advice with a large language model.
//
// The Generator wraps any langchaingo llms.Model. Structured operations ask
// the model for JSON and fall back to heuristic extraction from free text
// when the reply cannot be parsed; project plans have no fallback.
package ai

import (
	"fmt"

	"github.com/nordvest/backend/internal/infrastructure/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel creates the langchaingo model selected by cfg.Provider.
// xAI speaks the OpenAI protocol and is reached through the OpenAI client.
func NewModel(cfg *config.AIConfig) (llms.Model, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case config.ProviderXAI, config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s API key required", cfg.Provider)
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)

	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key required")
		}
		opts := []anthropic.Option{
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		model, err = anthropic.New(opts...)

	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", cfg.Provider, err)
	}
	return model, nil
}

// NewFromConfig builds the configured model and wraps it in a Generator
func NewFromConfig(cfg *config.AIConfig, opts ...Option) (*Generator, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithTemperature(cfg.Temperature),
		WithMaxTokens(cfg.MaxTokens),
		WithTimeout(cfg.Timeout),
		// langchaingo's anthropic client has no JSON mode; the prompt alone asks for JSON
		WithJSONMode(cfg.Provider != config.ProviderAnthropic),
	}
	return NewGenerator(model, cfg.Provider, cfg.Model, append(base, opts...)...), nil
}
