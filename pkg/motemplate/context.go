package motemplate

import "strings"

// contextNode wraps one pushed context value and memoizes the keys already
// fetched from it.
type contextNode struct {
	value interface{}
	found map[string]interface{}
}

func newContextNode(value interface{}) *contextNode {
	return &contextNode{value: value}
}

func (n *contextNode) get(key string) interface{} {
	if v, ok := n.found[key]; ok {
		return v
	}
	v := lookupKey(n.value, key)
	if v != nil {
		if n.found == nil {
			n.found = make(map[string]interface{})
		}
		n.found[key] = v
	}
	return v
}

// keyInfo is the per-key lookup cache. found holds the stack indices known to
// produce the key, in ascending stack order; probed is the high-water mark of
// entries already scanned, so a repeated resolve only probes entries pushed
// since the last one. Both are bounded by the stack length and truncated on
// pop, which evicts stale matches without identity bookkeeping.
type keyInfo struct {
	found  []int
	probed int
}

// contexts is a stack of context values with memoized key resolution. The
// entries present at construction are globals; entries pushed afterwards are
// locals and are the only ones that may be popped.
type contexts struct {
	nodes      []*contextNode
	firstLocal int
	info       map[string]*keyInfo
}

// newContexts builds a stack from the global context values, listed from most
// to least important. The most important value ends up on top.
func newContexts(globals []interface{}) *contexts {
	nodes := make([]*contextNode, 0, len(globals))
	for i := len(globals) - 1; i >= 0; i-- {
		nodes = append(nodes, newContextNode(globals[i]))
	}
	return &contexts{
		nodes:      nodes,
		firstLocal: len(nodes),
		info:       make(map[string]*keyInfo),
	}
}

// createFromGlobals produces a stack holding only the original global entries,
// used when forking into a partial so it cannot see the caller's locals.
func (c *contexts) createFromGlobals() *contexts {
	nodes := make([]*contextNode, c.firstLocal)
	copy(nodes, c.nodes[:c.firstLocal])
	return &contexts{
		nodes:      nodes,
		firstLocal: c.firstLocal,
		info:       make(map[string]*keyInfo),
	}
}

func (c *contexts) push(value interface{}) {
	c.nodes = append(c.nodes, newContextNode(value))
}

func (c *contexts) pop() {
	if len(c.nodes) <= c.firstLocal {
		panic("motemplate: context stack popped below its globals")
	}
	c.nodes = c.nodes[:len(c.nodes)-1]

	n := len(c.nodes)
	for _, info := range c.info {
		for len(info.found) > 0 && info.found[len(info.found)-1] >= n {
			info.found = info.found[:len(info.found)-1]
		}
		if info.probed > n {
			info.probed = n
		}
	}
}

// topLocal returns the most recently pushed local value, or nil if only
// globals are on the stack.
func (c *contexts) topLocal() interface{} {
	if len(c.nodes) == c.firstLocal {
		return nil
	}
	return c.nodes[len(c.nodes)-1].value
}

// resolve looks up a dotted path. The head is found by scanning the stack top
// down ("@" short-circuits to the top value); the tail descends through
// key-lookup capable values and yields nil as soon as one is not.
func (c *contexts) resolve(path string) interface{} {
	head, tail, hasTail := strings.Cut(path, ".")

	var found interface{}
	if head == thisIdentifier {
		if len(c.nodes) > 0 {
			found = c.nodes[len(c.nodes)-1].value
		}
	} else {
		found = c.findKey(head)
	}

	if !hasTail {
		return found
	}
	for _, part := range strings.Split(tail, ".") {
		if !canLookup(found) {
			return nil
		}
		found = lookupKey(found, part)
	}
	return found
}

func (c *contexts) findKey(key string) interface{} {
	info := c.info[key]
	if info == nil {
		info = &keyInfo{}
		c.info[key] = info
	}

	// Probe only the entries pushed since the last scan, top down. Producers
	// are recorded bottom-up so the freshest match stays last.
	if n := len(c.nodes); info.probed < n {
		var newly []int
		for i := n - 1; i >= info.probed; i-- {
			if c.nodes[i].get(key) != nil {
				newly = append(newly, i)
			}
		}
		for j := len(newly) - 1; j >= 0; j-- {
			info.found = append(info.found, newly[j])
		}
		info.probed = n
	}

	if len(info.found) == 0 {
		return nil
	}
	return c.nodes[info.found[len(info.found)-1]].get(key)
}
