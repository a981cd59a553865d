package render

import (
	"strings"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// resolveEncoding maps a fiscal profile's encoding name to a character
// encoder. Delimited formats apply it to the finished file; accounting
// software in several jurisdictions still expects legacy single-byte
// encodings.
func resolveEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8, nil
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-15", "LATIN9":
		return charmap.ISO8859_15, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, ierr.NewErrorf("unsupported encoding %q", name).
			WithHint("Supported encodings are UTF-8, ISO-8859-1, ISO-8859-15 and Windows-1252").
			Mark(ierr.ErrValidation)
	}
}

// encodeBytes transcodes UTF-8 content into the configured encoding.
func encodeBytes(name string, content []byte) ([]byte, error) {
	enc, err := resolveEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return content, nil
	}
	out, err := enc.NewEncoder().Bytes(content)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Content is not representable in %s", name).
			Mark(ierr.ErrRender)
	}
	return out, nil
}
