package motemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFailures(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name:    "empty template",
			source:  "",
			wantErr: "Template is empty (line 1)",
		},
		{
			name:    "whitespace only still compiles",
			source:  "   ",
			wantErr: "",
		},
		{
			name:    "dangling end tag",
			source:  "x{{/}}",
			wantErr: "There are still tokens remaining, was there an end-section without a start-section? (line 1)",
		},
		{
			name:    "dangling else tag",
			source:  "x{{:}}y",
			wantErr: "There are still tokens remaining, was there an end-section without a start-section? (line 1)",
		},
		{
			name:    "mismatched section close",
			source:  "{{#a}}x{{/b}}",
			wantErr: "Start section 'a' doesn't match end 'b' (line 1)",
		},
		{
			name:    "matching named close is fine",
			source:  "{{#a}}x{{/a}}",
			wantErr: "",
		},
		{
			name:    "mismatched else",
			source:  "{{?a}}x{{:b}}y{{/}}",
			wantErr: "Start section 'a' doesn't match else 'b' (line 1)",
		},
		{
			name:    "unclosed section",
			source:  "{{#a}}x",
			wantErr: "Expecting token end-section-open but the template ended (line 1)",
		},
		{
			name:    "unclosed variable",
			source:  "{{x",
			wantErr: "Expecting token variable-close but the template ended (line 1)",
		},
		{
			name:    "two-brace open with three-brace close",
			source:  "{{x}}}",
			wantErr: "Expecting token variable-close but got unescaped-variable-close (line 1)",
		},
		{
			name:    "orphaned close mustache",
			source:  "}}x",
			wantErr: "Orphaned variable-close (line 1)",
		},
		{
			name:    "empty identifier",
			source:  "{{}}",
			wantErr: "Empty identifier '' at line 1 column 3 (line 1)",
		},
		{
			name:    "identifier with a space",
			source:  "{{foo bar}}",
			wantErr: "Invalid identifier 'foo bar' at line 1 column 3 (line 1)",
		},
		{
			name:    "identifier with an empty path part",
			source:  "{{foo..bar}}",
			wantErr: "Invalid identifier 'foo..bar' at line 1 column 3 (line 1)",
		},
		{
			name:    "error carries the source line",
			source:  "line one\nline two {{bad name}}",
			wantErr: "Invalid identifier 'bad name' at line 2 column 12 (line 2)",
		},
		{
			name:    "valid identifier characters",
			source:  "{{a-b/c_d.e2}}",
			wantErr: "",
		},
		{
			name:    "at in a dotted path",
			source:  "{{@.foo}}",
			wantErr: "",
		},
		{
			name:    "unterminated comment is tolerated",
			source:  "x{{- never closed",
			wantErr: "",
		},
		{
			name:    "partial with empty argument value",
			source:  "{{+p key:}}",
			wantErr: "Empty identifier '' at line 1 column 10 (line 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.source)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCompileDropsEmptySections(t *testing.T) {
	// A section with no content contributes nothing to the tree, so rendering
	// it neither pushes a context nor reports an error.
	tmpl, err := New("a{{#missing}}{{/}}b")
	require.NoError(t, err)

	result := tmpl.Render(obj{})
	assert.Equal(t, "ab", result.Text)
	assert.Empty(t, result.Errors)
}

func TestTemplateNameAndSource(t *testing.T) {
	source := "hello {{name}}"
	tmpl, err := NewNamed(source, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "greeting", tmpl.Name())
	assert.Equal(t, source, tmpl.Source())

	anon, err := New(source)
	require.NoError(t, err)
	assert.Equal(t, "", anon.Name())
}
