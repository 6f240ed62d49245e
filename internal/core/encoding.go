package core

// encoding.go recovers text from import files of unknown encoding.
//
// Detection runs in priority order:
//   - byte-order mark (UTF-8, UTF-16LE, UTF-16BE)
//   - German diacritics in a UTF-8 decoded sample of the first 1024 bytes
//   - raw Windows-1252 diacritic bytes in the first 512 bytes
//   - UTF-8 as the default
//
// Decoding is total: every input yields some text.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies a text encoding by tag.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

// DecodedText is file content decoded to a string together with the
// encoding that was used.
type DecodedText struct {
	Text     string   `json:"-"`
	Encoding Encoding `json:"encoding"`
}

const (
	utf8SampleSize   = 1024
	legacySampleSize = 512
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

const germanDiacritics = "äöüßÄÖÜ"

// legacyDiacriticBytes are the Windows-1252 code points of germanDiacritics.
var legacyDiacriticBytes = []byte{0xE4, 0xF6, 0xFC, 0xDF, 0xC4, 0xD6, 0xDC}

// windows1252Letters maps the accented Latin letters of Windows-1252. For
// these bytes Windows-1252 and Latin-1 agree, so every entry is the byte's
// own code point. Bytes missing here, including 0x80-0x9F where
// charmap.Windows1252 would give typographic characters such as '€', also
// decode to their raw code point.
var windows1252Letters = map[byte]rune{
	0xC0: 'À', 0xC1: 'Á', 0xC2: 'Â', 0xC3: 'Ã', 0xC4: 'Ä', 0xC5: 'Å', 0xC6: 'Æ', 0xC7: 'Ç',
	0xC8: 'È', 0xC9: 'É', 0xCA: 'Ê', 0xCB: 'Ë', 0xCC: 'Ì', 0xCD: 'Í', 0xCE: 'Î', 0xCF: 'Ï',
	0xD0: 'Ð', 0xD1: 'Ñ', 0xD2: 'Ò', 0xD3: 'Ó', 0xD4: 'Ô', 0xD5: 'Õ', 0xD6: 'Ö',
	0xD8: 'Ø', 0xD9: 'Ù', 0xDA: 'Ú', 0xDB: 'Û', 0xDC: 'Ü', 0xDD: 'Ý', 0xDE: 'Þ', 0xDF: 'ß',
	0xE0: 'à', 0xE1: 'á', 0xE2: 'â', 0xE3: 'ã', 0xE4: 'ä', 0xE5: 'å', 0xE6: 'æ', 0xE7: 'ç',
	0xE8: 'è', 0xE9: 'é', 0xEA: 'ê', 0xEB: 'ë', 0xEC: 'ì', 0xED: 'í', 0xEE: 'î', 0xEF: 'ï',
	0xF0: 'ð', 0xF1: 'ñ', 0xF2: 'ò', 0xF3: 'ó', 0xF4: 'ô', 0xF5: 'õ', 0xF6: 'ö',
	0xF8: 'ø', 0xF9: 'ù', 0xFA: 'ú', 0xFB: 'û', 0xFC: 'ü', 0xFD: 'ý', 0xFE: 'þ', 0xFF: 'ÿ',
}

// DetectEncoding sniffs the encoding of raw and decodes it.
func DetectEncoding(raw []byte) DecodedText {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return DecodedText{Text: decodeUTF8(raw[len(bomUTF8):]), Encoding: EncodingUTF8}
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeUTF16(raw[len(bomUTF16LE):], unicode.LittleEndian, EncodingUTF16LE)
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeUTF16(raw[len(bomUTF16BE):], unicode.BigEndian, EncodingUTF16BE)
	}

	sample := strings.ToValidUTF8(string(head(raw, utf8SampleSize)), "")
	if strings.ContainsAny(sample, germanDiacritics) {
		return DecodedText{Text: decodeUTF8(raw), Encoding: EncodingUTF8}
	}

	if containsAnyByte(head(raw, legacySampleSize), legacyDiacriticBytes) {
		return DecodedText{Text: decodeWindows1252(raw), Encoding: EncodingWindows1252}
	}

	return DecodedText{Text: decodeUTF8(raw), Encoding: EncodingUTF8}
}

// DecodeAs decodes raw with a caller-chosen encoding. A leading BOM that
// matches the encoding is stripped.
func DecodeAs(raw []byte, enc Encoding) (DecodedText, error) {
	switch Encoding(strings.ToLower(string(enc))) {
	case EncodingUTF8, "utf8":
		return DecodedText{Text: decodeUTF8(bytes.TrimPrefix(raw, bomUTF8)), Encoding: EncodingUTF8}, nil
	case EncodingUTF16LE:
		return decodeUTF16(bytes.TrimPrefix(raw, bomUTF16LE), unicode.LittleEndian, EncodingUTF16LE), nil
	case EncodingUTF16BE:
		return decodeUTF16(bytes.TrimPrefix(raw, bomUTF16BE), unicode.BigEndian, EncodingUTF16BE), nil
	case EncodingWindows1252, "cp1252":
		return DecodedText{Text: decodeWindows1252(raw), Encoding: EncodingWindows1252}, nil
	case EncodingISO88591, "latin1":
		text, err := decodeWith(charmap.ISO8859_1, raw)
		if err != nil {
			return DecodedText{Text: decodeUTF8(raw), Encoding: EncodingUTF8}, nil
		}
		return DecodedText{Text: text, Encoding: EncodingISO88591}, nil
	default:
		return DecodedText{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}

func head(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func containsAnyByte(b, set []byte) bool {
	for _, c := range set {
		if bytes.IndexByte(b, c) >= 0 {
			return true
		}
	}
	return false
}

// decodeUTF8 replaces invalid sequences with U+FFFD.
func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// decodeUTF16 falls back to UTF-8 when the decoder rejects the input.
func decodeUTF16(b []byte, order unicode.Endianness, tag Encoding) DecodedText {
	text, err := decodeWith(unicode.UTF16(order, unicode.IgnoreBOM), b)
	if err != nil {
		return DecodedText{Text: decodeUTF8(b), Encoding: EncodingUTF8}
	}
	return DecodedText{Text: text, Encoding: tag}
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeWindows1252(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		if r, ok := windows1252Letters[c]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
