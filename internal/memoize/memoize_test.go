package memoize

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vkuzemko/filetran/internal"
	"github.com/vkuzemko/filetran/internal/provider"
)

type mockService struct {
	nameVal       string
	translateFunc func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error)
	callCount     atomic.Int32
}

func (m *mockService) Name() string { return m.nameVal }

func (m *mockService) Translate(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
	m.callCount.Add(1)
	if m.translateFunc != nil {
		return m.translateFunc(ctx, cfg, req)
	}
	return &provider.ServiceResult{ServiceName: m.nameVal, TranslatedText: "[" + req.Text + "]"}, nil
}

func (m *mockService) IsAvailable(ctx context.Context) error { return nil }

func (m *mockService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr"}, nil
}

func testConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
		PacingDelay: 0,
	}
}

func testLangs() internal.TranslationRequest {
	return internal.TranslationRequest{SourceLang: "en", TargetLang: "fr"}
}

func newTestMemoizer(svc provider.TranslationService) *Memoizer {
	return New(svc, provider.ServiceConfig{}, testLangs(), NewMapCache(), testConfig(), zerolog.Nop())
}

func TestTranslateUnit_BlankIdentity(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)

	tests := []string{"", "   ", "\t\n", " \t "}
	for _, input := range tests {
		got := m.TranslateUnit(context.Background(), input)
		if got != input {
			t.Errorf("TranslateUnit(%q) = %q, want input unchanged", input, got)
		}
	}

	if svc.callCount.Load() != 0 {
		t.Errorf("expected 0 provider calls for blank input, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_CacheHitAvoidsProviderCall(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)

	first := m.TranslateUnit(context.Background(), "Hello")
	second := m.TranslateUnit(context.Background(), "Hello")

	if first != "[Hello]" {
		t.Errorf("expected '[Hello]', got %q", first)
	}
	if second != first {
		t.Errorf("expected identical cached value, got %q and %q", first, second)
	}
	if svc.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_TrimsBeforeLookup(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)

	first := m.TranslateUnit(context.Background(), "Hello")
	second := m.TranslateUnit(context.Background(), "  Hello  ")

	if second != first {
		t.Errorf("expected padded input to hit the same cache entry, got %q and %q", first, second)
	}
	if svc.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_RetryThenFallback(t *testing.T) {
	svc := &mockService{
		nameVal: "failing",
		translateFunc: func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
			return nil, errors.New("network down")
		},
	}
	m := newTestMemoizer(svc)

	got := m.TranslateUnit(context.Background(), "  Hello  ")

	if got != "Hello" {
		t.Errorf("expected trimmed original 'Hello' on exhaustion, got %q", got)
	}
	if svc.callCount.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_FallbackNotCached(t *testing.T) {
	svc := &mockService{
		nameVal: "failing",
		translateFunc: func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
			return nil, errors.New("network down")
		},
	}
	m := newTestMemoizer(svc)

	m.TranslateUnit(context.Background(), "Hello")
	m.TranslateUnit(context.Background(), "Hello")

	// Each exhaustion burns the full attempt budget: the fallback must not
	// have been cached.
	if svc.callCount.Load() != 6 {
		t.Errorf("expected 6 attempts across two exhausted lookups, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_SuccessOnThirdAttempt(t *testing.T) {
	attempts := atomic.Int32{}
	svc := &mockService{
		nameVal: "flaky",
		translateFunc: func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
			if attempts.Add(1) < 3 {
				return &provider.ServiceResult{ServiceName: "flaky", Error: "temporary failure"}, nil
			}
			return &provider.ServiceResult{ServiceName: "flaky", TranslatedText: "Bonjour"}, nil
		},
	}
	m := newTestMemoizer(svc)

	got := m.TranslateUnit(context.Background(), "Hello")

	if got != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", got)
	}

	// The success must be cached like any other.
	got = m.TranslateUnit(context.Background(), "Hello")
	if got != "Bonjour" {
		t.Errorf("expected cached 'Bonjour', got %q", got)
	}
	if svc.callCount.Load() != 3 {
		t.Errorf("expected 3 provider calls total, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_CacheKeyedByLanguagePair(t *testing.T) {
	shared := NewMapCache()

	toFr := &mockService{
		nameVal: "mock",
		translateFunc: func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
			return &provider.ServiceResult{ServiceName: "mock", TranslatedText: "Bonjour"}, nil
		},
	}
	toDe := &mockService{
		nameVal: "mock",
		translateFunc: func(ctx context.Context, cfg provider.ServiceConfig, req provider.TranslateRequest) (*provider.ServiceResult, error) {
			return &provider.ServiceResult{ServiceName: "mock", TranslatedText: "Hallo"}, nil
		},
	}

	mFr := New(toFr, provider.ServiceConfig{}, internal.TranslationRequest{SourceLang: "en", TargetLang: "fr"}, shared, testConfig(), zerolog.Nop())
	mDe := New(toDe, provider.ServiceConfig{}, internal.TranslationRequest{SourceLang: "en", TargetLang: "de"}, shared, testConfig(), zerolog.Nop())

	if got := mFr.TranslateUnit(context.Background(), "Hello"); got != "Bonjour" {
		t.Errorf("en->fr: expected 'Bonjour', got %q", got)
	}
	if got := mDe.TranslateUnit(context.Background(), "Hello"); got != "Hallo" {
		t.Errorf("en->de: expected 'Hallo', got %q", got)
	}
	if shared.Len() != 2 {
		t.Errorf("expected 2 distinct cache entries, got %d", shared.Len())
	}
}

func TestTranslateUnit_GlossarySeedAvoidsProvider(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)

	m.Seed(map[string]string{"ACME": "ACME"})

	got := m.TranslateUnit(context.Background(), "ACME")
	if got != "ACME" {
		t.Errorf("expected seeded term 'ACME', got %q", got)
	}
	if svc.callCount.Load() != 0 {
		t.Errorf("expected 0 provider calls for seeded term, got %d", svc.callCount.Load())
	}
}

type mockMemory struct {
	entries map[string]string
	saved   int
}

func (m *mockMemory) GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error) {
	v, ok := m.entries[sourceLang+"|"+targetLang+"|"+sourceText]
	return v, ok, nil
}

func (m *mockMemory) SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, serviceUsed string) error {
	m.entries[sourceLang+"|"+targetLang+"|"+sourceText] = finalText
	m.saved++
	return nil
}

func TestTranslateUnit_PersistentMemoryHit(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)
	m.AttachMemory(&mockMemory{entries: map[string]string{"en|fr|Hello": "Bonjour"}})

	got := m.TranslateUnit(context.Background(), "Hello")

	if got != "Bonjour" {
		t.Errorf("expected 'Bonjour' from memory, got %q", got)
	}
	if svc.callCount.Load() != 0 {
		t.Errorf("expected 0 provider calls on memory hit, got %d", svc.callCount.Load())
	}
}

func TestTranslateUnit_PersistentMemorySaveOnSuccess(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	mem := &mockMemory{entries: map[string]string{}}
	m := newTestMemoizer(svc)
	m.AttachMemory(mem)

	m.TranslateUnit(context.Background(), "Hello")

	if mem.saved != 1 {
		t.Errorf("expected 1 memory save, got %d", mem.saved)
	}
	if mem.entries["en|fr|Hello"] != "[Hello]" {
		t.Errorf("expected memory entry '[Hello]', got %q", mem.entries["en|fr|Hello"])
	}
}

func TestTranslateUnit_ProviderCallsCounter(t *testing.T) {
	svc := &mockService{nameVal: "mock"}
	m := newTestMemoizer(svc)

	m.TranslateUnit(context.Background(), "Hello")
	m.TranslateUnit(context.Background(), "Hello")
	m.TranslateUnit(context.Background(), "World")

	if m.ProviderCalls() != 2 {
		t.Errorf("expected 2 distinct provider lookups, got %d", m.ProviderCalls())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Hello  ", "Hello"},
		{"\t\nHello\t\n", "Hello"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
