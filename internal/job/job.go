// Package job runs one file translation operation end to end: route by
// extension, parse, walk every translatable unit through the memoizing
// translator, and reassemble output bytes in the input's format.
package job

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vkuzemko/filetran/internal"
	"github.com/vkuzemko/filetran/internal/detector"
	"github.com/vkuzemko/filetran/internal/document"
	"github.com/vkuzemko/filetran/internal/memoize"
	"github.com/vkuzemko/filetran/internal/provider"
	"github.com/vkuzemko/filetran/internal/validator"
)

// User-visible error classes. Per-unit translation failures are never
// surfaced: the memoizer absorbs them by falling back to the original text.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("failed to parse input file")
	ErrSerialize         = errors.New("failed to serialize output file")
)

const (
	mimeCSV  = "text/csv"
	mimeText = "text/plain; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Input is what the presentation shell hands over: raw bytes plus the
// requested language pair.
type Input struct {
	Name  string
	Data  []byte
	Langs internal.TranslationRequest
}

// Output is the translated document and how to serve it.
type Output struct {
	Name string
	Data []byte
	MIME string
}

// MemoryStore is the persistent tier a Runner may carry: translation memory
// plus glossary preseeding. *store.Store satisfies it.
type MemoryStore interface {
	memoize.Memory
	GetGlossaryTerms(ctx context.Context, sourceLang, targetLang string) (map[string]string, error)
}

// Runner owns the collaborators shared by every operation in a session. The
// zero value is unusable; populate Service at minimum.
type Runner struct {
	Service   provider.TranslationService
	Config    provider.ServiceConfig
	Retry     memoize.Config
	Store     MemoryStore          // optional
	Detector  *detector.Detector   // optional; resolves the "auto" sentinel
	Validator *validator.Validator // optional; warn-only result check
	Logger    zerolog.Logger
}

// OutputName derives the translated file's name: strip the final extension,
// append "_translated", append the output format's extension. Legacy XLS
// input always yields an XLSX output name.
func OutputName(inputName string) string {
	ext := strings.ToLower(filepath.Ext(inputName))
	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))

	outExt := ext
	if ext == ".xls" {
		outExt = ".xlsx"
	}
	return base + "_translated" + outExt
}

// Supported reports whether the file extension is one this tool translates.
func Supported(inputName string) bool {
	switch strings.ToLower(filepath.Ext(inputName)) {
	case ".csv", ".txt", ".xlsx", ".xls":
		return true
	}
	return false
}

// Run translates one file. The whole document succeeds or the operation
// reports an error; there is no partial output. A failure to parse aborts
// before any provider traffic.
func (r *Runner) Run(ctx context.Context, in Input) (*Output, error) {
	ext := strings.ToLower(filepath.Ext(in.Name))

	switch ext {
	case ".csv":
		return r.runCSV(ctx, in)
	case ".txt":
		return r.runText(ctx, in)
	case ".xlsx", ".xls":
		return r.runWorkbook(ctx, in, ext)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .csv, .txt, .xlsx, .xls)", ErrUnsupportedFormat, ext)
	}
}

func (r *Runner) runCSV(ctx context.Context, in Input) (*Output, error) {
	table, err := document.ParseCSV(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	m := r.newMemoizer(ctx, r.resolveLangs(tableSample(table), in.Langs))
	translated := table.Translate(ctx, m)

	data, err := document.MarshalCSV(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	r.logOutcome(in, m)
	return &Output{Name: OutputName(in.Name), Data: data, MIME: mimeCSV}, nil
}

func (r *Runner) runText(ctx context.Context, in Input) (*Output, error) {
	content := document.DecodeText(in.Data)

	m := r.newMemoizer(ctx, r.resolveLangs(content, in.Langs))
	translated := document.TranslateText(ctx, m, in.Data)

	r.logOutcome(in, m)
	return &Output{Name: OutputName(in.Name), Data: []byte(translated), MIME: mimeText}, nil
}

func (r *Runner) runWorkbook(ctx context.Context, in Input, ext string) (*Output, error) {
	var wb *document.Workbook
	var err error
	if ext == ".xls" {
		wb, err = document.ParseXLS(in.Data)
	} else {
		wb, err = document.ParseXLSX(in.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	m := r.newMemoizer(ctx, r.resolveLangs(workbookSample(wb), in.Langs))
	translated := wb.Translate(ctx, m)

	data, err := document.MarshalXLSX(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	r.logOutcome(in, m)
	return &Output{Name: OutputName(in.Name), Data: data, MIME: mimeXLSX}, nil
}

func (r *Runner) newMemoizer(ctx context.Context, langs internal.TranslationRequest) *memoize.Memoizer {
	m := memoize.New(r.Service, r.Config, langs, memoize.NewMapCache(), r.Retry, r.Logger)
	if r.Store != nil {
		m.AttachMemory(r.Store)

		terms, err := r.Store.GetGlossaryTerms(ctx, langs.SourceLang, langs.TargetLang)
		if err != nil {
			r.Logger.Warn().Err(err).Msg("glossary preload failed")
		} else if len(terms) > 0 {
			m.Seed(terms)
			r.Logger.Debug().Int("terms", len(terms)).Msg("glossary preloaded")
		}
	}
	if r.Validator != nil {
		m.AttachValidator(r.Validator)
	}
	return m
}

// resolveLangs replaces the "auto" source sentinel with a detected language
// so cache keys stay stable across the run. When detection is inconclusive
// the sentinel is kept and the provider decides.
func (r *Runner) resolveLangs(sample string, langs internal.TranslationRequest) internal.TranslationRequest {
	if langs.SourceLang != "auto" || r.Detector == nil {
		return langs
	}

	if detected, ok := r.Detector.DetectISO(sample); ok {
		r.Logger.Info().Str("detected", detected).Msg("resolved source language")
		langs.SourceLang = strings.ToLower(detected)
	}
	return langs
}

func (r *Runner) logOutcome(in Input, m *memoize.Memoizer) {
	r.Logger.Info().
		Str("file", in.Name).
		Int("provider_lookups", m.ProviderCalls()).
		Msg("translation complete")
}

// tableSample picks a representative cell for language detection: the first
// non-blank data cell, falling back to the first non-blank header.
func tableSample(t *document.Table) string {
	for _, row := range t.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return cell
			}
		}
	}
	for _, name := range t.Header {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

func workbookSample(wb *document.Workbook) string {
	for _, sheet := range wb.Sheets {
		if sample := tableSample(&sheet.Table); sample != "" {
			return sample
		}
	}
	return ""
}
