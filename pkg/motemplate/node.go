package motemplate

import (
	"bytes"
	"encoding/json"
	"strings"
)

// node is the capability set shared by every AST node. The trim methods are
// only called during the parse-time whitespace pass; after compilation the
// tree is immutable and a render never mutates it.
type node interface {
	render(rs *renderState)
	startsWithNewline() bool
	trimStartingNewline()
	trimEndingSpaces() int
	trimEndingNewline()
	endsWithEmptyLine() bool
	startLine() int
	endLine() int
}

// leafTag marks single-line tag nodes (variables, JSON, comments, partials)
// for the whitespace pass.
type leafTag interface {
	leafTagNode()
}

// leafNode is the base for tag nodes with no children. Leaves own their line
// span and are never trimmed.
type leafNode struct {
	start int
	end   int
}

func (n *leafNode) leafTagNode()            {}
func (n *leafNode) startsWithNewline() bool { return false }
func (n *leafNode) trimStartingNewline()    {}
func (n *leafNode) trimEndingSpaces() int   { return 0 }
func (n *leafNode) trimEndingNewline()      {}
func (n *leafNode) endsWithEmptyLine() bool { return false }
func (n *leafNode) startLine() int          { return n.start }
func (n *leafNode) endLine() int            { return n.end }

// decoratorNode is the base for nodes owning exactly one child; trims and
// line spans delegate to it.
type decoratorNode struct {
	content node
}

func (n *decoratorNode) startsWithNewline() bool { return n.content.startsWithNewline() }
func (n *decoratorNode) trimStartingNewline()    { n.content.trimStartingNewline() }
func (n *decoratorNode) trimEndingSpaces() int   { return n.content.trimEndingSpaces() }
func (n *decoratorNode) trimEndingNewline()      { n.content.trimEndingNewline() }
func (n *decoratorNode) endsWithEmptyLine() bool { return n.content.endsWithEmptyLine() }
func (n *decoratorNode) startLine() int          { return n.content.startLine() }
func (n *decoratorNode) endLine() int            { return n.content.endLine() }

// textNode is a literal run of template text.
type textNode struct {
	text  string
	start int
	end   int
}

func (n *textNode) render(rs *renderState) {
	rs.buf.WriteString(n.text)
}

func (n *textNode) startsWithNewline() bool {
	return strings.HasPrefix(n.text, "\n")
}

func (n *textNode) trimStartingNewline() {
	if n.startsWithNewline() {
		n.text = n.text[1:]
	}
}

func (n *textNode) trimEndingSpaces() int {
	index := n.lastIndexOfSpaces()
	trimmed := len(n.text) - index
	n.text = n.text[:index]
	return trimmed
}

func (n *textNode) trimEndingNewline() {
	n.text = strings.TrimSuffix(n.text, "\n")
}

// endsWithEmptyLine reports whether the text ends in a line containing only
// spaces (or is entirely spaces).
func (n *textNode) endsWithEmptyLine() bool {
	index := n.lastIndexOfSpaces()
	return index == 0 || n.text[index-1] == '\n'
}

func (n *textNode) lastIndexOfSpaces() int {
	index := len(n.text)
	for index > 0 && n.text[index-1] == ' ' {
		index--
	}
	return index
}

func (n *textNode) startLine() int { return n.start }
func (n *textNode) endLine() int   { return n.end }

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapedVariableNode is {{foo}}.
type escapedVariableNode struct {
	leafNode
	id *identifier
}

func (n *escapedVariableNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if value == nil {
		rs.addResolutionError(n.id)
		return
	}
	rs.buf.WriteString(htmlEscaper.Replace(stringify(value)))
}

// unescapedVariableNode is {{{foo}}}.
type unescapedVariableNode struct {
	leafNode
	id *identifier
}

func (n *unescapedVariableNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if value == nil {
		rs.addResolutionError(n.id)
		return
	}
	rs.buf.WriteString(stringify(value))
}

// jsonNode is {{*foo}}: the value serialized as compact JSON.
type jsonNode struct {
	leafNode
	id *identifier
}

func (n *jsonNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if value == nil {
		rs.addResolutionError(n.id)
		return
	}
	// json.Marshal would escape <, > and & for HTML embedding; the tag emits
	// the value verbatim.
	var encoded bytes.Buffer
	enc := json.NewEncoder(&encoded)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		rs.addResolutionError(n.id)
		return
	}
	rs.buf.WriteString(strings.TrimSuffix(encoded.String(), "\n"))
}

// commentNode is {{- ... -}}. It renders nothing but is kept in the tree so
// the whitespace pass can trim around comment-only lines.
type commentNode struct {
	leafNode
}

func (n *commentNode) render(rs *renderState) {}

// sectionNode is {{#foo}} ... {{/}}: iterate a list or enter a map context.
type sectionNode struct {
	decoratorNode
	id *identifier
}

func (n *sectionNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if items, ok := asList(value); ok {
		for _, item := range items {
			// Push even "invalid" elements so @ can refer to list items
			// such as [1,2,3].
			rs.contexts.push(item)
			n.content.render(rs)
			rs.contexts.pop()
		}
	} else if canLookup(value) {
		rs.contexts.push(value)
		n.content.render(rs)
		rs.contexts.pop()
	} else {
		rs.addResolutionError(n.id)
	}
}

// vertedSectionNode is {{?foo}} ... {{/}}: render iff foo is truthy.
type vertedSectionNode struct {
	decoratorNode
	id *identifier
}

func (n *vertedSectionNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if shouldRender(value) {
		rs.contexts.push(value)
		n.content.render(rs)
		rs.contexts.pop()
	}
}

// invertedSectionNode is {{^foo}} ... {{/}}: render iff foo is falsy. No
// context is pushed, so @ keeps its enclosing binding.
type invertedSectionNode struct {
	decoratorNode
	id *identifier
}

func (n *invertedSectionNode) render(rs *renderState) {
	if !shouldRender(rs.contexts.resolve(n.id.name)) {
		n.content.render(rs)
	}
}

// partialNode is {{+foo key:value.path @:localctx}}.
type partialNode struct {
	leafNode
	id             *identifier
	args           map[string]*identifier
	localContextID *identifier
}

func (n *partialNode) addArgument(key string, id *identifier) {
	if n.args == nil {
		n.args = make(map[string]*identifier)
	}
	n.args[key] = id
}

func (n *partialNode) render(rs *renderState) {
	value := rs.contexts.resolve(n.id.name)
	if value == nil {
		rs.addResolutionError(n.id)
		return
	}
	tmpl, ok := value.(*Template)
	if !ok {
		rs.addResolutionError(n.id)
		return
	}

	ps := rs.forkPartial(tmpl.name, n.id)
	if ps.depth > ps.maxDepth {
		rs.addTracedError(partialDepthError(ps.maxDepth, n.id, rs.name))
		return
	}

	// Forward the caller's current context by default.
	if top := rs.contexts.topLocal(); top != nil {
		ps.contexts.push(top)
	}

	// Named arguments resolve in the caller's stack; absent values are
	// silently omitted.
	if n.args != nil {
		argContext := make(map[string]interface{})
		for key, valueID := range n.args {
			if v := rs.contexts.resolve(valueID.name); v != nil {
				argContext[key] = v
			}
		}
		ps.contexts.push(argContext)
	}

	// An explicit local context is pushed last and wins resolution.
	if n.localContextID != nil {
		if local := rs.contexts.resolve(n.localContextID.name); local != nil {
			ps.contexts.push(local)
		}
	}

	tmpl.top.render(ps)

	rs.merge(ps, trimOneTrailingNewline)
}

func trimOneTrailingNewline(text string) string {
	return strings.TrimSuffix(text, "\n")
}

// nodeCollection is an ordered run of sibling nodes.
type nodeCollection struct {
	nodes []node
}

func (n *nodeCollection) render(rs *renderState) {
	for _, child := range n.nodes {
		child.render(rs)
	}
}

func (n *nodeCollection) startsWithNewline() bool { return n.nodes[0].startsWithNewline() }
func (n *nodeCollection) trimStartingNewline()    { n.nodes[0].trimStartingNewline() }
func (n *nodeCollection) trimEndingSpaces() int   { return n.nodes[len(n.nodes)-1].trimEndingSpaces() }
func (n *nodeCollection) trimEndingNewline()      { n.nodes[len(n.nodes)-1].trimEndingNewline() }
func (n *nodeCollection) endsWithEmptyLine() bool { return n.nodes[len(n.nodes)-1].endsWithEmptyLine() }
func (n *nodeCollection) startLine() int          { return n.nodes[0].startLine() }
func (n *nodeCollection) endLine() int            { return n.nodes[len(n.nodes)-1].endLine() }

// blockNode wraps a node whose content spans multiple lines. The compile-time
// trims happen in the constructor; rendering is a pass-through.
type blockNode struct {
	decoratorNode
}

func newBlockNode(content node) *blockNode {
	content.trimStartingNewline()
	content.trimEndingSpaces()
	return &blockNode{decoratorNode{content}}
}

func (n *blockNode) render(rs *renderState) {
	n.content.render(rs)
}

// indentedNode wraps a tag that sits alone on its own line: the rendered text
// is re-indented to the tag's column on every line and always ends with a
// newline.
type indentedNode struct {
	decoratorNode
	indent string
}

func newIndentedNode(content node, indentation int) *indentedNode {
	return &indentedNode{decoratorNode{content}, strings.Repeat(" ", indentation)}
}

func (n *indentedNode) render(rs *renderState) {
	if _, ok := n.content.(*commentNode); ok {
		return
	}
	cs := rs.copyState()
	n.content.render(cs)
	rs.merge(cs, func(text string) string {
		return n.indent + strings.ReplaceAll(text, "\n", "\n"+n.indent) + "\n"
	})
}

// inlineNode wraps any other tag: newlines are stripped from the rendered
// text so single-line tag output cannot break across lines.
type inlineNode struct {
	decoratorNode
}

func (n *inlineNode) render(rs *renderState) {
	cs := rs.copyState()
	n.content.render(cs)
	rs.merge(cs, func(text string) string {
		return strings.ReplaceAll(text, "\n", "")
	})
}
