package provider

import (
	"context"
	"time"
)

type ServiceConfig struct {
	Credentials   string        `mapstructure:"credentials" json:"credentials"`
	APIKey        string        `mapstructure:"api_key" json:"api_key"`
	BaseURL       string        `mapstructure:"base_url" json:"base_url"`
	MyMemoryEmail string        `mapstructure:"mymemory_email" json:"mymemory_email"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string        `json:"service_name"`
	TranslatedText string        `json:"translated_text"`
	Latency        time.Duration `json:"latency"`
	Error          string        `json:"error,omitempty"`
}

// TranslationService is the provider adapter boundary: one remote
// text-translation backend. Implementations own whatever network state a
// single call needs and are safe to reuse across calls.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
