package document

import (
	"bytes"
	"context"
)

// DecodeText decodes raw bytes permissively: ill-formed UTF-8 sequences are
// dropped rather than failing the operation or inserting replacement runes.
func DecodeText(data []byte) string {
	return string(bytes.ToValidUTF8(data, nil))
}

// TranslateText treats the whole decoded file content as one translatable
// unit. It is deliberately not split into lines or sentences.
func TranslateText(ctx context.Context, tr Translator, data []byte) string {
	return tr.TranslateUnit(ctx, DecodeText(data))
}
