// Package visualization renders parameter trees in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/paramtree/internal/param"
)

// Format specifies the output format for tree rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// nodeColors maps parameter kinds to DOT colors.
var nodeColors = map[param.Kind]string{
	param.KindLeaf:        "lightgray",
	param.KindContainer:   "steelblue",
	param.KindOptions:     "goldenrod",
	param.KindPerturbed:   "tomato",
	param.KindBroadcaster: "mediumseagreen",
}

// node is one rendered parameter with its dotted path.
type node struct {
	path     string
	param    param.Parameter
	selected bool // selected alternative of an options parent
	children []node
}

// walk builds the render tree. Perturbed parameters are rendered as leaves and
// a broadcaster's size leaf is listed after its children.
func walk(p param.Parameter, path string) node {
	n := node{path: path, param: p}

	var children []param.Parameter
	switch v := p.(type) {
	case *param.Perturbed:
		return n
	case *param.Broadcaster:
		children = append(v.Children(), v.SizeLeaf())
	case param.Composite:
		children = v.Children()
	}

	var selected param.Parameter
	if o, ok := p.(*param.Options); ok {
		selected = o.Selected()
	}
	for _, c := range children {
		child := walk(c, path+"."+c.ID())
		child.selected = selected != nil && c == selected
		n.children = append(n.children, child)
	}
	return n
}

// RenderDOT produces a Graphviz DOT representation of the parameter tree.
// Node ids are dotted paths, so repeated ids in different subtrees stay distinct.
func RenderDOT(root param.Parameter) string {
	tree := walk(root, root.ID())

	var b strings.Builder
	b.WriteString("digraph paramtree {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	var nodes func(n node)
	nodes = func(n node) {
		color := nodeColors[n.param.Kind()]
		if color == "" {
			color = "white"
		}
		b.WriteString(fmt.Sprintf("  %q [label=%q, fillcolor=%q, tooltip=%q];\n",
			n.path, truncate(label(n.param), 40), color, n.param.Description()))
		for _, c := range n.children {
			nodes(c)
		}
	}
	nodes(tree)
	b.WriteString("\n")

	var edges func(n node)
	edges = func(n node) {
		for _, c := range n.children {
			style := "solid"
			switch {
			case c.selected:
				style = "bold"
			case n.param.Kind() == param.KindOptions:
				style = "dashed"
			}
			b.WriteString(fmt.Sprintf("  %q -> %q [style=%s];\n", n.path, c.path, style))
			edges(c)
		}
	}
	edges(tree)

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a nested JSON-ready representation of the tree.
func RenderJSON(root param.Parameter) map[string]any {
	return jsonNode(walk(root, root.ID()))
}

func jsonNode(n node) map[string]any {
	p := n.param
	out := map[string]any{
		"id":   p.ID(),
		"name": p.Name(),
		"kind": p.Kind().String(),
		"path": n.path,
	}
	if d := p.Description(); d != "" {
		out["description"] = d
	}

	switch v := p.(type) {
	case *param.Leaf:
		out["value"] = v.Value()
		if u := v.Units(); u != "" {
			out["units"] = u
		}
	case *param.Perturbed:
		out["value"] = v.Value()
		out["perturbation"] = v.Perturbation()
		if u := v.Units(); u != "" {
			out["units"] = u
		}
	case *param.Options:
		out["selection"] = v.Selection()
	case *param.Broadcaster:
		if size, err := v.Size(); err == nil {
			out["size"] = size
		}
	}

	if len(n.children) > 0 {
		children := make([]map[string]any, 0, len(n.children))
		for _, c := range n.children {
			children = append(children, jsonNode(c))
		}
		out["children"] = children
	}
	return out
}

// label is the one-line description of a parameter used by every format.
func label(p param.Parameter) string {
	var b strings.Builder
	b.WriteString(p.ID())

	switch v := p.(type) {
	case *param.Leaf:
		b.WriteString(" = " + valueText(v.Value(), v.Units()))
	case *param.Perturbed:
		b.WriteString(" = " + valueText(v.Value(), v.Units()))
		b.WriteString(fmt.Sprintf(" ±%g%%", v.Perturbation()*100))
	case *param.Options:
		b.WriteString(fmt.Sprintf(" [options: %s]", v.Selection()))
	case *param.Broadcaster:
		if size, err := v.Size(); err == nil {
			b.WriteString(fmt.Sprintf(" [broadcaster ×%d]", size))
		} else {
			b.WriteString(" [broadcaster ×?]")
		}
	default:
		b.WriteString(" [" + p.Kind().String() + "]")
	}
	return b.String()
}

func valueText(v any, units string) string {
	s := fmt.Sprint(v)
	if units != "" {
		s += " " + units
	}
	return s
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
