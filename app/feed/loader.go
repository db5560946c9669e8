package feed

import (
	"fmt"

	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/record"
)

// Loader runs one feed through source, parser and bill construction. A
// failure is reported once for the whole feed, never per row.
type Loader struct {
	source    *Source
	parser    *record.Parser
	converter *RSSConverter
}

func NewLoader(source *Source, parser *record.Parser, converter *RSSConverter) *Loader {
	return &Loader{
		source:    source,
		parser:    parser,
		converter: converter,
	}
}

func (l *Loader) Load(name string) ([]bill.Bill, error) {
	raw, format, err := l.source.Read(name)
	if err != nil {
		return nil, err
	}

	records, err := l.Parse(raw, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed '%s': %w", name, err)
	}

	return bill.FromRecords(records), nil
}

func (l *Loader) Parse(raw string, format Format) ([]record.Record, error) {
	if format == FormatRSS {
		return l.converter.Run(raw)
	}
	return l.parser.Parse(raw)
}

func (l *Loader) Source() *Source {
	return l.source
}
