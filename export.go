package seal

import (
	"fmt"
	"image"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FilenameSuffix is appended to the label to name exported seals ("duty seal").
const FilenameSuffix = "_職章.png"

// Filename suggests a download name of the form <text>_職章.png. The label
// is NFC normalised and characters that are unsafe in file names become '_'.
func Filename(text string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, norm.NFC.String(text))
	return strings.TrimSpace(clean) + FilenameSuffix
}

// Export encodes img as PNG into w and returns the suggested filename for
// the seal described by spec.
func Export(w io.Writer, spec Spec, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image provided")
	}
	if err := EncodePNG(w, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return Filename(spec.Text), nil
}
