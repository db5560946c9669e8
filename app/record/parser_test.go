package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_SingleRow(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("billNumber|title|tags\nSB1|Test Bill|Education reform,Equality")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, []string{"billNumber", "title", "tags"}, r.Keys())
	assert.Equal(t, "SB1", r.Value("billNumber"))
	assert.Equal(t, "Test Bill", r.Value("title"))
	assert.Equal(t, "Education reform,Equality", r.Value("tags"))
	assert.Nil(t, r.Overflow())
}

func TestParser_Parse_RowCountMatchesLines(t *testing.T) {
	parser := NewParser('|')

	lines := []string{
		"billNumber|title|status",
		"SB1|First|Pending",
		"SB2|Second|Passed",
		"HB3|Third|Failed",
		"HB4|Fourth|Pending",
	}

	records, err := parser.Parse(strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.Len(t, records, len(lines)-1)

	for i, r := range records {
		assert.Equal(t, []string{"billNumber", "title", "status"}, r.Keys())
		fields := strings.Split(lines[i+1], "|")
		assert.Equal(t, fields[0], r.Value("billNumber"), "row %d keeps original order", i)
	}
}

func TestParser_Parse_RaggedShortRow(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("billNumber|title|tags\nSB1|Test Bill\nSB2|Other|Equality")
	require.NoError(t, err)
	require.Len(t, records, 2)

	value, ok := records[0].Get("tags")
	assert.True(t, ok)
	assert.Equal(t, "", value)
	assert.Equal(t, 3, records[0].Len())
	assert.Equal(t, "Equality", records[1].Value("tags"))
}

func TestParser_Parse_RaggedLongRow(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("billNumber|title\nSB1|Test Bill|extra|more")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Test Bill", records[0].Value("title"))
	assert.Equal(t, []string{"extra", "more"}, records[0].Overflow())
	_, ok := records[0].Get("extra")
	assert.False(t, ok)
}

func TestParser_Parse_EmptyInputs(t *testing.T) {
	parser := NewParser('|')

	for name, input := range map[string]string{
		"empty":           "",
		"whitespace":      "  \n\t\n",
		"header only":     "billNumber|title",
		"header newline":  "billNumber|title\n",
		"header and gaps": "billNumber|title\n\n   \n",
	} {
		t.Run(name, func(t *testing.T) {
			records, err := parser.Parse(input)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestParser_Parse_SkipsBlankLinesAndCarriageReturns(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("\r\nbillNumber|title\r\nSB1|One\r\n\r\nSB2|Two\r\n")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "One", records[0].Value("title"))
	assert.Equal(t, "Two", records[1].Value("title"))
}

func TestParser_Parse_DuplicateHeaderFirstWins(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("title|title|status\nFirst|Second|Passed")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"title", "status"}, records[0].Keys())
	assert.Equal(t, "First", records[0].Value("title"))
	assert.Equal(t, "Passed", records[0].Value("status"))
}

func TestParser_Parse_CustomDelimiter(t *testing.T) {
	parser := NewParser(';')

	records, err := parser.Parse("billNumber;title\nSB1;A|B")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, ';', parser.Delimiter())
	assert.Equal(t, "A|B", records[0].Value("title"))
}

func TestParser_Parse_StripsBOM(t *testing.T) {
	parser := NewParser('|')

	records, err := parser.Parse("\ufeffbillNumber|title\nSB1|One")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "SB1", records[0].Value("billNumber"))
}

func TestParser_Parse_UTF16WithBOM(t *testing.T) {
	parser := NewParser('|')

	// "a|b\nx|y" encoded as UTF-16LE with a BOM.
	raw := "\xff\xfea\x00|\x00b\x00\n\x00x\x00|\x00y\x00"

	records, err := parser.Parse(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "x", records[0].Value("a"))
	assert.Equal(t, "y", records[0].Value("b"))
}

func TestParser_Parse_MalformedInput(t *testing.T) {
	parser := NewParser('|')

	tests := map[string]string{
		"invalid utf8": "billNumber|title\nSB1|\xc3\x28",
		"nul bytes":    "billNumber|title\x00\nSB1|One",
		"blank header": "  |  | \nSB1|One",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := parser.Parse(input)
			require.Error(t, err)
			assert.Nil(t, records)

			var malformed *MalformedInputError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestNewParser_FallsBackToDefaultDelimiter(t *testing.T) {
	assert.Equal(t, DefaultDelimiter, NewParser(0).Delimiter())
	assert.Equal(t, DefaultDelimiter, NewParser('\n').Delimiter())
}

func TestRecord_New(t *testing.T) {
	r := New([]string{"a", "b", "c"}, []string{"1", "2"})

	assert.Equal(t, "1", r.Value("a"))
	assert.Equal(t, "", r.Value("c"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": ""}, r.Map())

	m := r.Map()
	m["a"] = "changed"
	assert.Equal(t, "1", r.Value("a"))
}
