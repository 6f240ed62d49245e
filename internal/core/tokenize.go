package core

// tokenize.go turns decoded text into header-keyed rows.
//
// CSV input is split with a quote-toggling scanner over an auto-detected
// delimiter. Quotes only protect delimiters; they are never kept in values.
// Malformed CSV rows are dropped, never rejected. JSON input must be an
// array of objects.

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

// File formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var errNotObject = errors.New("not an object")

// candidateDelimiters in tie-break order.
var candidateDelimiters = []rune{',', ';', '\t'}

// RawRow is one data row keyed by header. Line is the 1-based line number in
// a CSV file or the 1-based element index in a JSON array.
type RawRow struct {
	Line   int
	Values map[string]string
}

// ParsedFile is the tokenized content of an import file. It can be mapped
// repeatedly without re-reading the file.
type ParsedFile struct {
	Format    string
	Encoding  Encoding
	Delimiter rune
	Headers   []string
	Rows      []RawRow
}

// DetectDelimiter picks the delimiter with the strictly highest count in the
// header line. Ties and lines without any candidate give a comma.
func DetectDelimiter(headerLine string) rune {
	best, bestCount := ',', 0
	tie := false
	for _, d := range candidateDelimiters {
		n := strings.Count(headerLine, string(d))
		switch {
		case n > bestCount:
			best, bestCount, tie = d, n, false
		case n == bestCount && n > 0:
			tie = true
		}
	}
	if tie || bestCount == 0 {
		return ','
	}
	return best
}

// SplitFields splits a line on delim outside of double quotes. Quote
// characters are dropped and each field is trimmed.
func SplitFields(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// TokenizeCSV splits text into a header and data rows. The first non-blank
// line is the header. Rows are keyed by header position; missing cells are
// empty and surplus cells are dropped. Rows with only empty values are
// discarded.
func TokenizeCSV(text DecodedText) *ParsedFile {
	parsed := &ParsedFile{Format: FormatCSV, Encoding: text.Encoding, Delimiter: ','}

	lines := strings.Split(text.Text, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if parsed.Headers == nil {
			parsed.Delimiter = DetectDelimiter(line)
			parsed.Headers = SplitFields(line, parsed.Delimiter)
			continue
		}

		fields := SplitFields(line, parsed.Delimiter)
		values := make(map[string]string, len(parsed.Headers))
		empty := true
		for j, h := range parsed.Headers {
			v := ""
			if j < len(fields) {
				v = fields[j]
			}
			if v != "" {
				empty = false
			}
			values[h] = v
		}
		if empty {
			continue
		}
		parsed.Rows = append(parsed.Rows, RawRow{Line: i + 1, Values: values})
	}
	return parsed
}

// ParseJSONRows decodes a JSON array of objects. Headers are the keys of the
// first object in document order. Scalars become their text form, null
// becomes empty, and nested values keep their raw JSON.
func ParseJSONRows(text DecodedText) (*ParsedFile, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text.Text), &elems); err != nil {
		return nil, &FormatError{Format: FormatJSON, Reason: "expected an array of objects: " + err.Error()}
	}
	if len(elems) == 0 {
		return nil, &FormatError{Format: FormatJSON, Reason: "array is empty"}
	}

	parsed := &ParsedFile{Format: FormatJSON, Encoding: text.Encoding}
	for i, elem := range elems {
		keys, values, err := decodeObject(elem)
		if err != nil {
			return nil, &FormatError{Format: FormatJSON, Reason: "element " + strconv.Itoa(i+1) + ": " + err.Error()}
		}
		if i == 0 {
			parsed.Headers = keys
		}

		row := make(map[string]string, len(parsed.Headers))
		for _, h := range parsed.Headers {
			row[h] = values[h]
		}
		parsed.Rows = append(parsed.Rows, RawRow{Line: i + 1, Values: row})
	}
	return parsed, nil
}

// decodeObject returns the keys of a JSON object in document order and the
// values converted to strings.
func decodeObject(raw json.RawMessage) ([]string, map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errNotObject
	}

	var keys []string
	values := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = jsonValueString(v)
	}
	return keys, values, nil
}

func jsonValueString(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed)
		}
		return strings.TrimSpace(s)
	default:
		return string(trimmed)
	}
}

// ParseFile tokenizes decoded import text, dispatching on its
// extension. Unknown extensions are tried as CSV first, then as JSON when
// the CSV reading yields no rows or looks like JSON.
func ParseFile(fileName string, text DecodedText) (*ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return TokenizeCSV(text), nil
	case ".json":
		return ParseJSONRows(text)
	}

	csv := TokenizeCSV(text)
	looksJSON := len(csv.Headers) > 0 && strings.IndexAny(csv.Headers[0], "[{") == 0
	if len(csv.Rows) > 0 && !looksJSON {
		return csv, nil
	}

	parsed, err := ParseJSONRows(text)
	if err != nil {
		if looksJSON {
			return nil, err
		}
		return csv, nil
	}
	return parsed, nil
}
