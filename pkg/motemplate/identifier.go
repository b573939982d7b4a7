package motemplate

import (
	"fmt"
	"regexp"
	"strings"
)

// thisIdentifier denotes the value at the top of the context stack.
const thisIdentifier = "@"

var identifierPartPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`)

// identifier is a validated dotted path such as "@", "foo.bar" or "@.foo".
// Each part is either "@" or a run of [A-Za-z0-9_-/] characters. The source
// position is kept for render-time diagnostics.
type identifier struct {
	name   string
	line   int
	column int
}

func newIdentifier(name string, line, column int) (*identifier, error) {
	id := &identifier{
		name:   name,
		line:   line,
		column: column,
	}
	if name == "" {
		return nil, NewParseError("Empty identifier "+id.description(), line)
	}
	for _, part := range strings.Split(name, ".") {
		if part != thisIdentifier && !identifierPartPattern.MatchString(part) {
			return nil, NewParseError("Invalid identifier "+id.description(), line)
		}
	}
	return id, nil
}

// description renders the identifier the way resolution errors report it.
func (id *identifier) description() string {
	return fmt.Sprintf("'%s' at line %d column %d", id.name, id.line, id.column)
}
