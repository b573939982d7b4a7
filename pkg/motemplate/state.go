package motemplate

import (
	"fmt"
	"strings"
)

// RenderResult is what a render call returns. Errors are advisory: Text is
// always the best-effort output, and a non-empty error list never prevents
// consuming it.
type RenderResult struct {
	Text   string
	Errors []string
}

// partialInfo links a forked render state back to the state that invoked the
// partial, along with the identifier that triggered the fork. The chain is
// walked to build inclusion traces for resolution errors.
type partialInfo struct {
	state *renderState
	id    *identifier
}

// renderState is the mutable state of one render call, or of one partial
// invocation within it.
type renderState struct {
	name     string
	contexts *contexts
	buf      strings.Builder
	errs     []string
	partial  *partialInfo
	depth    int
	maxDepth int
}

func newRenderState(name string, c *contexts) *renderState {
	return &renderState{
		name:     name,
		contexts: c,
		maxDepth: GetGlobalConfig().MaxPartialDepth,
	}
}

func (rs *renderState) addResolutionError(id *identifier) {
	rs.addTracedError(fmt.Sprintf("Failed to resolve %s in %s", id.description(), rs.name))
}

// addTracedError appends message plus one line per enclosing partial
// inclusion, innermost first.
func (rs *renderState) addTracedError(message string) {
	rs.errs = append(rs.errs, message)
	for p := rs.partial; p != nil; p = p.state.partial {
		rs.errs = append(rs.errs,
			fmt.Sprintf("  included as %s in %s", p.id.description(), p.state.name))
	}
}

// copyState shares the context stack and trace but starts a fresh buffer and
// error list, for decorators that transform their child's text before merging.
func (rs *renderState) copyState() *renderState {
	return &renderState{
		name:     rs.name,
		contexts: rs.contexts,
		partial:  rs.partial,
		depth:    rs.depth,
		maxDepth: rs.maxDepth,
	}
}

// forkPartial starts the render state for a partial invocation: only the
// caller's globals carry over, and the trace links back to the call site.
func (rs *renderState) forkPartial(customName string, id *identifier) *renderState {
	name := customName
	if name == "" {
		name = id.name
	}
	return &renderState{
		name:     name,
		contexts: rs.contexts.createFromGlobals(),
		partial:  &partialInfo{state: rs, id: id},
		depth:    rs.depth + 1,
		maxDepth: rs.maxDepth,
	}
}

// merge folds a child state back in: errors are appended, text is transformed
// (if a transform is given) and appended to the buffer.
func (rs *renderState) merge(child *renderState, transform func(string) string) {
	rs.errs = append(rs.errs, child.errs...)
	text := child.buf.String()
	if transform != nil {
		text = transform(text)
	}
	rs.buf.WriteString(text)
}

func partialDepthError(max int, id *identifier, name string) string {
	return fmt.Sprintf("Maximum partial inclusion depth %d exceeded at %s in %s",
		max, id.description(), name)
}

func (rs *renderState) result() *RenderResult {
	return &RenderResult{
		Text:   rs.buf.String(),
		Errors: rs.errs,
	}
}
