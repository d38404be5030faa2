// Package memoize wraps a translation provider with caching, bounded retries
// and best-effort fallback. It is the piece that makes translating a document
// with heavy duplicate content cost one provider call per distinct string.
package memoize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/vkuzemko/filetran/internal"
	"github.com/vkuzemko/filetran/internal/provider"
	"github.com/vkuzemko/filetran/internal/validator"
)

// Memory is an optional persistent tier behind the in-process cache.
// *store.Store satisfies it.
type Memory interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, serviceUsed string) error
}

type Config struct {
	MaxAttempts int           // provider attempts per unit, including the first
	RetryDelay  time.Duration // wait after each failed attempt
	PacingDelay time.Duration // wait after each successful provider call
}

// DefaultConfig mirrors the reference pacing: 3 attempts, 1s backoff, 50ms
// pacing to stay under informal provider rate limits.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		PacingDelay: 50 * time.Millisecond,
	}
}

// Memoizer routes translatable units through one provider, deduplicating
// repeated strings via the cache. Not safe for concurrent use: the cache is
// unsynchronized and the retry/pacing waits block the calling goroutine.
type Memoizer struct {
	service provider.TranslationService
	cfg     provider.ServiceConfig
	langs   internal.TranslationRequest
	config  Config
	cache   Cache
	memory  Memory               // may be nil
	check   *validator.Validator // may be nil; warn-only
	logger  zerolog.Logger

	providerCalls int
}

func New(service provider.TranslationService, cfg provider.ServiceConfig, langs internal.TranslationRequest, cache Cache, config Config, logger zerolog.Logger) *Memoizer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.PacingDelay < 0 {
		config.PacingDelay = 0
	}

	return &Memoizer{
		service: service,
		cfg:     cfg,
		langs:   langs,
		config:  config,
		cache:   cache,
		logger:  logger,
	}
}

// AttachMemory adds a persistent tier consulted on in-process cache misses
// and written on provider success.
func (m *Memoizer) AttachMemory(mem Memory) {
	m.memory = mem
}

// AttachValidator adds a warn-only target-language check on provider results.
func (m *Memoizer) AttachValidator(v *validator.Validator) {
	m.check = v
}

// Normalize produces the canonical form of a translatable unit: leading and
// trailing whitespace trimmed, Unicode NFC applied.
func Normalize(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

func (m *Memoizer) cacheKey(normalized string) string {
	return fmt.Sprintf("%s|%s|%s", m.langs.SourceLang, m.langs.TargetLang, normalized)
}

// Seed pins term translations into the cache so they never reach the
// provider. Used for glossary preloading.
func (m *Memoizer) Seed(terms map[string]string) {
	for src, dst := range terms {
		key := Normalize(src)
		if key == "" {
			continue
		}
		m.cache.Set(m.cacheKey(key), dst)
	}
}

// ProviderCalls reports how many units reached the provider (cache misses
// that got at least one attempt). Retries do not increment the count.
func (m *Memoizer) ProviderCalls() int {
	return m.providerCalls
}

// TranslateUnit translates a single unit with caching, bounded retries and
// fallback to the original text.
//
// Blank input (empty or whitespace-only) is returned unchanged without
// touching the cache or the provider. A cache or memory hit returns
// immediately with no delay. Otherwise the provider is attempted up to
// MaxAttempts times, waiting RetryDelay after each failure; success is cached
// and followed by PacingDelay. When every attempt fails the normalized
// original is returned and deliberately NOT cached, so a later occurrence of
// the same string gets a fresh chance at the provider.
func (m *Memoizer) TranslateUnit(ctx context.Context, value string) string {
	key := Normalize(value)
	if key == "" {
		return value
	}

	cacheKey := m.cacheKey(key)
	if cached, ok := m.cache.Get(cacheKey); ok {
		return cached
	}

	if m.memory != nil {
		cached, found, err := m.memory.GetCachedTranslation(ctx, key, m.langs.SourceLang, m.langs.TargetLang)
		if err != nil {
			m.logger.Warn().Err(err).Msg("translation memory lookup failed")
		} else if found {
			m.cache.Set(cacheKey, cached)
			return cached
		}
	}

	req := provider.TranslateRequest{
		Text:       key,
		SourceLang: m.langs.SourceLang,
		TargetLang: m.langs.TargetLang,
	}

	m.providerCalls++
	for attempt := 1; attempt <= m.config.MaxAttempts; attempt++ {
		result, err := m.service.Translate(ctx, m.cfg, req)
		if err != nil || result == nil || result.Error != "" {
			m.logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", m.config.MaxAttempts).
				AnErr("error", err).
				Msg("provider call failed")
			time.Sleep(m.config.RetryDelay)
			continue
		}

		translated := result.TranslatedText
		if m.check != nil {
			if ok, verr := m.check.IsValid(translated, m.langs.TargetLang); !ok {
				m.logger.Warn().AnErr("reason", verr).Str("text", key).Msg("translation failed target-language check")
			}
		}

		m.cache.Set(cacheKey, translated)
		if m.memory != nil {
			if merr := m.memory.SaveToMemory(ctx, key, m.langs.SourceLang, m.langs.TargetLang, translated, m.service.Name()); merr != nil {
				m.logger.Warn().Err(merr).Msg("translation memory save failed")
			}
		}

		time.Sleep(m.config.PacingDelay)
		return translated
	}

	m.logger.Warn().Str("text", key).Msg("retries exhausted, keeping original text")
	return key
}
