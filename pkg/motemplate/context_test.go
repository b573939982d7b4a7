package motemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGetter records how often each key is fetched, to verify that
// repeated resolution does not re-probe context entries.
type countingGetter struct {
	calls  map[string]int
	values obj
}

func newCountingGetter(values obj) *countingGetter {
	return &countingGetter{calls: make(map[string]int), values: values}
}

func (g *countingGetter) Get(key string) interface{} {
	g.calls[key]++
	return g.values[key]
}

func TestContextLookupIsCached(t *testing.T) {
	getter := newCountingGetter(obj{
		"items": arr{obj{}, obj{}, obj{}},
		"x":     "v",
	})

	result := mustNew(t, "{{#items}}{{x}}{{/}}").Render(getter)
	assert.Equal(t, "vvv", result.Text)
	assert.Empty(t, result.Errors)

	// Each iteration pushes and pops a list element, but the global producer
	// of "x" is probed exactly once across all of them.
	assert.Equal(t, 1, getter.calls["x"])
	assert.Equal(t, 1, getter.calls["items"])
}

func TestContextCacheEvictsOnPop(t *testing.T) {
	// "k" resolves to the pushed section context inside, and back to the
	// global one after the pop.
	result := mustNew(t, "{{#wrap}}{{k}}{{/}}-{{k}}").Render(obj{
		"wrap": obj{"k": "inner"},
		"k":    "outer",
	})
	assert.Equal(t, "inner-outer", result.Text)
	assert.Empty(t, result.Errors)
}

func TestContextShadowing(t *testing.T) {
	// The most recently pushed context wins; absent keys fall through.
	result := mustNew(t, "{{#user}}{{name}}/{{site}}{{/}}").Render(obj{
		"user": obj{"name": "bob"},
		"name": "global",
		"site": "example",
	})
	assert.Equal(t, "bob/example", result.Text)
	assert.Empty(t, result.Errors)
}

func TestContextThisBinding(t *testing.T) {
	t.Run("top of the stack", func(t *testing.T) {
		result := mustNew(t, "{{#items}}[{{@}}]{{/}}").Render(obj{"items": arr{"a", "b"}})
		assert.Equal(t, "[a][b]", result.Text)
	})

	t.Run("dotted path through this", func(t *testing.T) {
		result := mustNew(t, "{{#user}}-{{@.name}}-{{/}}").Render(obj{
			"user": obj{"name": "bob"},
		})
		assert.Equal(t, "-bob-", result.Text)
	})

	t.Run("nil list elements are pushed", func(t *testing.T) {
		result := mustNew(t, "{{#items}}{{?@}}{{@}}{{:}}?{{/}}{{/}}").Render(obj{
			"items": arr{"a", nil, "c"},
		})
		assert.Equal(t, "a?c", result.Text)
		assert.Empty(t, result.Errors)
	})
}

func TestContextGetterValues(t *testing.T) {
	getter := newCountingGetter(obj{"greeting": "hi"})
	// The trailing tag follows a spaces-only literal with nothing after it, so
	// it is classified indented and appends a newline.
	result := mustNew(t, "{{greeting}} {{name}}").Render(getter, obj{"name": "bob"})
	assert.Equal(t, "hi bob\n", result.Text)
	assert.Empty(t, result.Errors)
}

func TestContextPopBelowGlobalsPanics(t *testing.T) {
	c := newContexts([]interface{}{obj{}})
	require.Panics(t, func() { c.pop() })
}

func TestLookupKey(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		key   string
		want  interface{}
	}{
		{"plain map", obj{"k": 1}, "k", 1},
		{"absent key", obj{}, "k", nil},
		{"nil value", nil, "k", nil},
		{"typed map", map[string]int{"k": 7}, "k", 7},
		{"typed map absent key", map[string]int{}, "k", nil},
		{"non-map", 42, "k", nil},
		{"nil entry resolves like a missing one", obj{"k": nil}, "k", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupKey(tt.value, tt.key))
		})
	}
}

func TestShouldRender(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, false},
		{"true", true, true},
		{"false", false, false},
		{"empty list", arr{}, false},
		{"non-empty list", arr{0}, true},
		{"empty typed slice", []int{}, false},
		{"zero", 0, true},
		{"empty string", "", true},
		{"map", obj{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRender(tt.value))
		})
	}
}
