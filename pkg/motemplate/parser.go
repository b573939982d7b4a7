package motemplate

import "fmt"

// parser is a recursive-descent consumer of the token stream. parseSection is
// called once at document root and once per section body; end-section and
// else tokens terminate a call without being consumed so the caller that
// opened the section validates its own close tag.
type parser struct {
	tokens *tokenStream
}

// parseSection parses sibling nodes until the input (or the enclosing
// section) ends, applies the whitespace pass, and collapses the result: nil
// for no nodes, the node itself for one, a collection otherwise.
func (p *parser) parseSection() (node, error) {
	var nodes []node
	sectionEnded := false

	for p.tokens.hasNext() && !sectionEnded {
		switch p.tokens.tok {
		case tokenCharacter:
			startLine := p.tokens.line
			text := p.tokens.nextString("")
			nodes = append(nodes, &textNode{text: text, start: startLine, end: p.tokens.line})

		case tokenOpenVariable, tokenOpenUnescapedVariable, tokenOpenStartJSON:
			kind := p.tokens.tok
			id, err := p.openSectionOrTag()
			if err != nil {
				return nil, err
			}
			span := leafNode{p.tokens.line, p.tokens.line}
			switch kind {
			case tokenOpenVariable:
				nodes = append(nodes, &escapedVariableNode{span, id})
			case tokenOpenUnescapedVariable:
				nodes = append(nodes, &unescapedVariableNode{span, id})
			default:
				nodes = append(nodes, &jsonNode{span, id})
			}

		case tokenOpenStartPartial:
			partial, err := p.parsePartial()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, partial)

		case tokenOpenStartSection:
			id, err := p.openSectionOrTag()
			if err != nil {
				return nil, err
			}
			content, err := p.parseSection()
			if err != nil {
				return nil, err
			}
			if err := p.closeSection(id); err != nil {
				return nil, err
			}
			if content != nil {
				nodes = append(nodes, &sectionNode{decoratorNode{content}, id})
			}

		case tokenOpenStartVertedSection, tokenOpenStartInvertedSection:
			kind := p.tokens.tok
			id, err := p.openSectionOrTag()
			if err != nil {
				return nil, err
			}
			content, err := p.parseSection()
			if err != nil {
				return nil, err
			}
			var elseContent node
			if p.tokens.hasNext() && p.tokens.tok == tokenOpenElse {
				if err := p.openElse(id); err != nil {
					return nil, err
				}
				elseContent, err = p.parseSection()
				if err != nil {
					return nil, err
				}
			}
			if err := p.closeSection(id); err != nil {
				return nil, err
			}
			// The else branch is the dual node kind with the same identifier.
			if kind == tokenOpenStartVertedSection {
				if content != nil {
					nodes = append(nodes, &vertedSectionNode{decoratorNode{content}, id})
				}
				if elseContent != nil {
					nodes = append(nodes, &invertedSectionNode{decoratorNode{elseContent}, id})
				}
			} else {
				if content != nil {
					nodes = append(nodes, &invertedSectionNode{decoratorNode{content}, id})
				}
				if elseContent != nil {
					nodes = append(nodes, &vertedSectionNode{decoratorNode{elseContent}, id})
				}
			}

		case tokenOpenComment:
			startLine := p.tokens.line
			if err := p.advanceOverComment(); err != nil {
				return nil, err
			}
			nodes = append(nodes, &commentNode{leafNode{startLine, p.tokens.line}})

		case tokenOpenEndSection, tokenOpenElse:
			// Terminating condition; the caller that opened this section
			// consumes and validates the tag. An orphaned end tag at root
			// surfaces as leftover tokens after parsing.
			sectionEnded = true

		default:
			return nil, NewParseError(
				fmt.Sprintf("Orphaned %s", p.tokens.tok), p.tokens.line)
		}
	}

	applyWhitespace(nodes)

	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	default:
		return &nodeCollection{nodes}, nil
	}
}

// parsePartial parses {{+name key:value.path ... @:localctx}}.
func (p *parser) parsePartial() (*partialNode, error) {
	p.tokens.advance()
	column := p.tokens.column + 1
	id, err := newIdentifier(p.tokens.nextWord(), p.tokens.line, column)
	if err != nil {
		return nil, err
	}
	partial := &partialNode{leafNode: leafNode{p.tokens.line, p.tokens.line}, id: id}

	for p.tokens.hasNext() && p.tokens.tok == tokenCharacter {
		p.tokens.skipWhitespace()
		key := p.tokens.nextString(":")
		p.tokens.advance()
		column := p.tokens.column + 1
		valueID, err := newIdentifier(p.tokens.nextWord(), p.tokens.line, column)
		if err != nil {
			return nil, err
		}
		if key == thisIdentifier {
			partial.localContextID = valueID
		} else {
			partial.addArgument(key, valueID)
		}
	}

	if err := p.tokens.advanceOver(tokenCloseMustache); err != nil {
		return nil, err
	}
	return partial, nil
}

// openSectionOrTag consumes an opening delimiter, the identifier, and the
// matching close delimiter (3-brace for unescaped variables).
func (p *parser) openSectionOrTag() (*identifier, error) {
	open := p.tokens.tok
	p.tokens.advance()
	column := p.tokens.column + 1
	id, err := newIdentifier(p.tokens.nextString(""), p.tokens.line, column)
	if err != nil {
		return nil, err
	}
	closing := tokenCloseMustache
	if open == tokenOpenUnescapedVariable {
		closing = tokenCloseMustache3
	}
	if err := p.tokens.advanceOver(closing); err != nil {
		return nil, err
	}
	return id, nil
}

// closeSection consumes {{/name}}; a non-empty name must match the opening
// identifier.
func (p *parser) closeSection(id *identifier) error {
	if err := p.tokens.advanceOver(tokenOpenEndSection); err != nil {
		return err
	}
	name := p.tokens.nextString("")
	if name != "" && name != id.name {
		return NewParseError(
			fmt.Sprintf("Start section '%s' doesn't match end '%s'", id.name, name),
			p.tokens.line)
	}
	return p.tokens.advanceOver(tokenCloseMustache)
}

// openElse consumes {{:name}} with the same name-matching rule as close tags.
func (p *parser) openElse(id *identifier) error {
	if err := p.tokens.advanceOver(tokenOpenElse); err != nil {
		return err
	}
	name := p.tokens.nextString("")
	if name != "" && name != id.name {
		return NewParseError(
			fmt.Sprintf("Start section '%s' doesn't match else '%s'", id.name, name),
			p.tokens.line)
	}
	return p.tokens.advanceOver(tokenCloseMustache)
}

// advanceOverComment consumes a (possibly nested) {{- ... -}} comment.
func (p *parser) advanceOverComment() error {
	if err := p.tokens.advanceOver(tokenOpenComment); err != nil {
		return err
	}
	depth := 1
	for p.tokens.hasNext() && depth > 0 {
		switch p.tokens.tok {
		case tokenOpenComment:
			depth++
		case tokenCloseComment:
			depth--
		}
		p.tokens.advance()
	}
	return nil
}

// applyWhitespace classifies every non-literal node as block, indented, or
// inline, trimming adjoining whitespace so tags that sit on their own lines
// do not leave stray blank lines in the output.
func applyWhitespace(nodes []node) {
	for i, n := range nodes {
		if _, ok := n.(*textNode); ok {
			continue
		}

		var prev, next node
		if i > 0 {
			prev = nodes[i-1]
		}
		if i < len(nodes)-1 {
			next = nodes[i+1]
		}
		_, isLeaf := n.(leafTag)

		switch {
		case n.startLine() != n.endLine():
			// The node's own content spans lines: render as a block.
			wrapped := newBlockNode(n)
			if prev != nil {
				prev.trimEndingSpaces()
			}
			if next != nil {
				next.trimStartingNewline()
			}
			nodes[i] = wrapped

		case isLeaf &&
			(prev == nil || prev.endsWithEmptyLine()) &&
			(next == nil || next.startsWithNewline()):
			// A leaf tag alone on its line: capture its indentation and
			// re-indent whatever it renders.
			indentation := 0
			if prev != nil {
				indentation = prev.trimEndingSpaces()
			}
			if next != nil {
				next.trimStartingNewline()
			}
			nodes[i] = newIndentedNode(n, indentation)

		default:
			nodes[i] = &inlineNode{decoratorNode{n}}
		}
	}
}
