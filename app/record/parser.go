package record

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultDelimiter separates fields in the legislature's exported feeds.
const DefaultDelimiter = '|'

type Parser struct {
	delimiter string
}

func NewParser(delimiter rune) *Parser {
	if delimiter == 0 || delimiter == '\n' || delimiter == '\r' {
		delimiter = DefaultDelimiter
	}
	return &Parser{delimiter: string(delimiter)}
}

func (p *Parser) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(p.delimiter)
	return r
}

// Parse splits raw delimited text into records. The first non-blank line
// is the header; blank lines are skipped. Empty or header-only input
// yields an empty slice. Only a payload that is not text, or a header
// without any field names, is an error.
func (p *Parser) Parse(raw string) ([]Record, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))

	var h *header
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, p.delimiter)
		if h == nil {
			h = newHeader(fields)
			if len(h.keys) == 0 {
				return nil, &MalformedInputError{Reason: "header row has no field names"}
			}
			continue
		}

		records = append(records, h.record(fields))
	}

	return records, nil
}

// decode strips a byte order mark, transcodes UTF-16 payloads and rejects
// binary data before any line splitting happens.
func decode(raw string) (string, error) {
	if !hasUTF16BOM(raw) && !utf8.ValidString(raw) {
		return "", &MalformedInputError{Reason: "payload is not valid UTF-8 text"}
	}

	text, _, err := transform.String(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", &MalformedInputError{Reason: "failed to decode payload", Err: err}
	}

	if strings.ContainsRune(text, 0) {
		return "", &MalformedInputError{Reason: "payload contains NUL bytes"}
	}

	return text, nil
}

func hasUTF16BOM(s string) bool {
	return strings.HasPrefix(s, "\xfe\xff") || strings.HasPrefix(s, "\xff\xfe")
}
