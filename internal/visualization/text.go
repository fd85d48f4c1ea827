package visualization

import (
	"strings"

	"github.com/nvandessel/paramtree/internal/param"
)

// RenderText produces an indented outline of the tree, two spaces per level.
// The selected alternative of an options parameter is marked with "*", and a
// display name differing from the id is appended in quotes.
func RenderText(root param.Parameter) string {
	var b strings.Builder
	var write func(n node, depth int)
	write = func(n node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		if n.selected {
			b.WriteString("* ")
		}
		b.WriteString(label(n.param))
		if name := n.param.Name(); name != n.param.ID() {
			b.WriteString(" \"" + name + "\"")
		}
		b.WriteString("\n")
		for _, c := range n.children {
			write(c, depth+1)
		}
	}
	write(walk(root, root.ID()), 0)
	return b.String()
}
