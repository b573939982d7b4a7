package motemplate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// The whitespace pass classifies every tag as block, indented, or inline.
// These tests pin the visible consequences: tags on their own lines leave no
// blank lines behind, and indented tags re-indent whatever they produce.
func TestWhitespaceHandling(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contexts []interface{}
		want     string
	}{
		{
			name:     "variable alone in the template gets a trailing newline",
			source:   "{{x}}",
			contexts: []interface{}{obj{"x": "v"}},
			want:     "v\n",
		},
		{
			name:     "inline variable strips newlines from its value",
			source:   "-{{x}}-",
			contexts: []interface{}{obj{"x": "a\nb"}},
			want:     "-ab-",
		},
		{
			name:     "variable on its own line re-indents a multi-line value",
			source:   "start\n  {{x}}\nend",
			contexts: []interface{}{obj{"x": "a\nb"}},
			want:     "start\n  a\n  b\nend",
		},
		{
			name:     "section spanning lines leaves no tag lines behind",
			source:   "start\n{{#items}}\n  {{@}}\n{{/}}\nend",
			contexts: []interface{}{obj{"items": arr{1, 2}}},
			want:     "start\n  1\n  2\nend",
		},
		{
			name:     "verted section spanning lines",
			source:   "a\n{{?v}}\nbody\n{{/}}\nb",
			contexts: []interface{}{obj{"v": true}},
			want:     "a\nbody\nb",
		},
		{
			name:     "skipped verted section leaves no blank line",
			source:   "a\n{{?v}}\nbody\n{{/}}\nb",
			contexts: []interface{}{obj{}},
			want:     "a\nb",
		},
		{
			name:     "comment on its own line leaves no blank line",
			source:   "a\n  {{- note -}}\nb",
			contexts: []interface{}{obj{}},
			want:     "a\nb",
		},
		{
			name:     "inline comment leaves surrounding text alone",
			source:   "a {{- note -}} b",
			contexts: []interface{}{obj{}},
			want:     "a  b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustNew(t, tt.source).Render(tt.contexts...)
			if diff := cmp.Diff(tt.want, result.Text); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, result.Errors)
		})
	}
}
