package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLibreTranslateURL is the base URL of a locally hosted LibreTranslate.
const DefaultLibreTranslateURL = "http://localhost:5000"

// LibreTranslateService talks to a self-hosted LibreTranslate server.
type LibreTranslateService struct {
	baseURL string
	client  *http.Client
}

func NewLibreTranslateService(baseURL string) *LibreTranslateService {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	return &LibreTranslateService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *LibreTranslateService) Name() string {
	return "libretranslate"
}

func (s *LibreTranslateService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "auto"
	}

	payload := map[string]any{
		"q":      req.Text,
		"source": sourceLang,
		"target": req.TargetLang,
		"format": "text",
	}
	if cfg.APIKey != "" {
		payload["api_key"] = cfg.APIKey
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/translate", bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		result.Error = fmt.Sprintf("API error: status %d: %s", resp.StatusCode, string(body))
		return result, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var libreResp struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&libreResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	result.TranslatedText = libreResp.TranslatedText

	return result, nil
}

func (s *LibreTranslateService) IsAvailable(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/languages", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("LibreTranslate unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LibreTranslate unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (s *LibreTranslateService) SupportedLanguages(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/languages", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var langs []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Code)
	}
	return codes, nil
}
