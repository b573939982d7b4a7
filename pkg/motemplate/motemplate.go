// Package motemplate is a data-binding text template engine, more-than-loosely
// inspired by ctemplate and mustache:
//
//   - {{foo.bar}} dereferences dotted paths directly.
//   - {{#foo}}...{{/}} iterates lists and promotes the members of maps into
//     the current namespace; {{@}} refers to the current list item.
//   - {{?foo}}...{{:}}...{{/}} is the existential test (with an optional else
//     clause), so a list can be tested without printing its contents;
//     {{^foo}} is its inverse.
//   - {{*foo}} serializes a value as compact JSON.
//   - {{+foo}} includes another compiled *Template reachable from the
//     context, with optional named arguments and an explicit local context:
//     {{+foo arg:some.path @:local.ctx}}.
//   - {{- comments may {{- nest -}} -}}.
//
// Basic usage:
//
//	tmpl, err := motemplate.New("hello {{#foo}}{{bar}} {{/}}world")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := tmpl.Render(map[string]interface{}{
//	    "foo": []interface{}{
//	        map[string]interface{}{"bar": 1},
//	        map[string]interface{}{"bar": 2},
//	    },
//	})
//	fmt.Println(result.Text)
//
// Rendering never fails: values that do not resolve are skipped and reported
// in RenderResult.Errors. Context values are plain maps, slices and scalars;
// anything with a Get(key) method (the Getter interface) can resolve keys
// lazily.
//
// A compiled Template is immutable and safe for concurrent renders.
package motemplate

// Template is a compiled template, reusable across any number of renders.
type Template struct {
	name   string
	source string
	top    node
}

// New compiles a template from source.
func New(source string) (*Template, error) {
	return NewNamed(source, "")
}

// NewNamed compiles a template with a display name, used in place of "<root>"
// in resolution errors and inclusion traces.
func NewNamed(source, name string) (*Template, error) {
	tokens := newTokenStream(source)
	p := &parser{tokens: tokens}

	top, err := p.parseSection()
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, NewParseError("Template is empty", tokens.line)
	}
	if tokens.hasNext() {
		return nil, NewParseError(
			"There are still tokens remaining, was there an end-section without a start-section?",
			tokens.line)
	}

	GetLogger().Debug("compiled template %q (%d bytes)", name, len(source))
	return &Template{
		name:   name,
		source: source,
		top:    top,
	}, nil
}

// Name returns the display name the template was compiled with, if any.
func (t *Template) Name() string {
	return t.name
}

// Source returns the source text the template was compiled from.
func (t *Template) Source() string {
	return t.source
}

// Render renders the template against a variable number of context values,
// most important first. The result always carries the best-effort text;
// resolution failures accumulate in its error list.
func (t *Template) Render(contexts ...interface{}) *RenderResult {
	name := t.name
	if name == "" {
		name = "<root>"
	}
	rs := newRenderState(name, newContexts(contexts))
	t.top.render(rs)
	return rs.result()
}
