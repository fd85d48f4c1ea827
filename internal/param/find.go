package param

import (
	"fmt"
	"strings"
)

// Find returns the first node in pre-order whose id is id.
func Find(root Parameter, id string) (Parameter, bool) {
	var found Parameter
	root.Traverse(func(p Parameter) bool {
		if found != nil {
			return false
		}
		if p.ID() == id {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// Lookup resolves a dotted path of child ids below root, e.g. "feed.rate".
// An empty path returns root.
func Lookup(root Parameter, path string) (Parameter, error) {
	if path == "" {
		return root, nil
	}
	cur := root
	for _, id := range strings.Split(path, ".") {
		c, ok := cur.(Composite)
		if !ok {
			return nil, fmt.Errorf("%w: %q is a %s, cannot descend to %q", ErrNotFound, cur.ID(), cur.Kind(), id)
		}
		next, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Count returns the number of nodes reachable from root.
func Count(root Parameter) int {
	n := 0
	root.Traverse(func(Parameter) bool {
		n++
		return true
	})
	return n
}
