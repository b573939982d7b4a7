package motemplate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// tokenKind identifies one entry of the fixed template vocabulary.
type tokenKind int

const (
	tokenOpenStartSection tokenKind = iota // {{#
	tokenOpenStartVertedSection            // {{?
	tokenOpenStartInvertedSection          // {{^
	tokenOpenStartJSON                     // {{*
	tokenOpenStartPartial                  // {{+
	tokenOpenElse                          // {{:
	tokenOpenEndSection                    // {{/
	tokenOpenUnescapedVariable             // {{{
	tokenCloseMustache3                    // }}}
	tokenOpenComment                       // {{-
	tokenCloseComment                      // -}}
	tokenOpenVariable                      // {{
	tokenCloseMustache                     // }}
	tokenCharacter                         // any single character
)

func (k tokenKind) String() string {
	switch k {
	case tokenOpenStartSection:
		return "section-open"
	case tokenOpenStartVertedSection:
		return "verted-section-open"
	case tokenOpenStartInvertedSection:
		return "inverted-section-open"
	case tokenOpenStartJSON:
		return "json-open"
	case tokenOpenStartPartial:
		return "partial-open"
	case tokenOpenElse:
		return "else-open"
	case tokenOpenEndSection:
		return "end-section-open"
	case tokenOpenUnescapedVariable:
		return "unescaped-variable-open"
	case tokenCloseMustache3:
		return "unescaped-variable-close"
	case tokenOpenComment:
		return "comment-open"
	case tokenCloseComment:
		return "comment-close"
	case tokenOpenVariable:
		return "variable-open"
	case tokenCloseMustache:
		return "variable-close"
	case tokenCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// tokenTable lists the delimiter literals in matching priority order: longest
// first, so that e.g. "{{{" is never consumed as "{{" followed by "{".
var tokenTable = []struct {
	kind tokenKind
	text string
}{
	{tokenOpenStartSection, "{{#"},
	{tokenOpenStartVertedSection, "{{?"},
	{tokenOpenStartInvertedSection, "{{^"},
	{tokenOpenStartJSON, "{{*"},
	{tokenOpenStartPartial, "{{+"},
	{tokenOpenElse, "{{:"},
	{tokenOpenEndSection, "{{/"},
	{tokenOpenUnescapedVariable, "{{{"},
	{tokenCloseMustache3, "}}}"},
	{tokenOpenComment, "{{-"},
	{tokenCloseComment, "-}}"},
	{tokenOpenVariable, "{{"},
	{tokenCloseMustache, "}}"},
}

const whitespaceChars = " \n\r\t"

// tokenStream scans template source into tokens, one lookahead token at a
// time. line is 1-based; column is the 0-based offset of the current token
// within its line (identifier positions are reported 1-based).
type tokenStream struct {
	remainder string
	tok       tokenKind
	contents  string
	line      int
	column    int
	valid     bool
}

func newTokenStream(source string) *tokenStream {
	ts := &tokenStream{
		remainder: source,
		line:      1,
	}
	ts.advance()
	return ts
}

func (ts *tokenStream) hasNext() bool {
	return ts.valid
}

// advance consumes the current token and scans the next one.
func (ts *tokenStream) advance() {
	if ts.contents == "\n" {
		ts.line++
		ts.column = 0
	} else if ts.valid {
		// Columns count characters, not bytes.
		ts.column += utf8.RuneCountInString(ts.contents)
	}

	ts.valid = false
	ts.contents = ""

	if ts.remainder == "" {
		return
	}

	ts.tok = tokenCharacter
	length := 0
	for _, entry := range tokenTable {
		if strings.HasPrefix(ts.remainder, entry.text) {
			ts.tok = entry.kind
			length = len(entry.text)
			break
		}
	}
	if ts.tok == tokenCharacter {
		_, length = utf8.DecodeRuneInString(ts.remainder)
	}

	ts.contents = ts.remainder[:length]
	ts.remainder = ts.remainder[length:]
	ts.valid = true
}

// advanceOver asserts the current token kind and consumes it.
func (ts *tokenStream) advanceOver(kind tokenKind) error {
	if !ts.valid {
		return NewParseError(
			fmt.Sprintf("Expecting token %s but the template ended", kind), ts.line)
	}
	if ts.tok != kind {
		return NewParseError(
			fmt.Sprintf("Expecting token %s but got %s", kind, ts.tok), ts.line)
	}
	ts.advance()
	return nil
}

// nextString consumes a run of character tokens, stopping early at any
// character listed in excluded.
func (ts *tokenStream) nextString(excluded string) string {
	var buf strings.Builder
	for ts.valid && ts.tok == tokenCharacter && !strings.Contains(excluded, ts.contents) {
		buf.WriteString(ts.contents)
		ts.advance()
	}
	return buf.String()
}

// nextWord consumes character tokens up to the next whitespace character.
func (ts *tokenStream) nextWord() string {
	return ts.nextString(whitespaceChars)
}

func (ts *tokenStream) skipWhitespace() {
	for ts.valid && strings.Contains(whitespaceChars, ts.contents) {
		ts.advance()
	}
}
