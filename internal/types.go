package internal

// TranslationRequest is the immutable language pair a single translation
// operation runs under. SourceLang may be the sentinel "auto"; TargetLang is
// always a concrete code.
type TranslationRequest struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}
