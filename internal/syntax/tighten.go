package syntax

import (
	"go/token"
)

// Tighten closes the gaps rewrites leave between the braces of a block and
// the statements it still holds. Dropped statements and comments leave the
// original brace positions behind, and the printer keeps such a gap as a
// blank line. Braces directly next to their statements are left alone.
func Tighten(fset *token.FileSet, n Node) {
	switch n := n.(type) {
	case *FunctionDefinition:
		tightenNodes(fset, n.Body)
		n.Lbrace, n.Rbrace = hug(fset, n.Body, n.Lbrace, n.Rbrace)
	case *Conditional:
		tightenSlots(fset, n.Closures)
		tightenNodes(fset, n.Body)
		n.Lbrace, n.Rbrace = enclose(fset, n.Body, n.Lbrace, n.Rbrace)
		if n.Else == nil {
			return
		}
		tightenNodes(fset, n.Else.Nodes)
		if !n.Else.Chain {
			n.Else.Lbrace, n.Else.Rbrace = enclose(fset, n.Else.Nodes, n.Else.Lbrace, n.Else.Rbrace)
		}
	case *Other:
		tightenSlots(fset, n.Slots)
	}
}

func tightenNodes(fset *token.FileSet, nodes []Node) {
	for _, n := range nodes {
		Tighten(fset, n)
	}
}

func tightenSlots(fset *token.FileSet, slots []*Slot) {
	for _, slot := range slots {
		tightenNodes(fset, slot.Nodes)
		if slot.block == nil {
			continue
		}
		rbrace := slot.block.Rbrace
		slot.block.Lbrace, slot.block.Rbrace = hug(fset, slot.Nodes, slot.block.Lbrace, rbrace)
		// keep "})" together, the printer breaks the argument list otherwise
		if slot.follow != nil && slot.block.Rbrace != rbrace && line(fset, *slot.follow) == line(fset, rbrace) {
			*slot.follow = slot.block.Rbrace + 1
		}
	}
}

// enclose moves a brace that is more than one line away from the first or
// last of nodes onto the line of that node
func enclose(fset *token.FileSet, nodes []Node, lbrace, rbrace token.Pos) (token.Pos, token.Pos) {
	if len(nodes) == 0 {
		return lbrace, rbrace
	}

	first, last := nodes[0].Pos(), nodes[len(nodes)-1].End()
	if gap(fset, lbrace, first) > 1 {
		lbrace = first
	}
	if gap(fset, last, rbrace) > 1 {
		rbrace = last - 1
	}
	return lbrace, rbrace
}

// hug is enclose for function bodies. The printer renders a body whose
// braces share a line as a one-liner, so such a result is discarded.
func hug(fset *token.FileSet, nodes []Node, lbrace, rbrace token.Pos) (token.Pos, token.Pos) {
	l, r := enclose(fset, nodes, lbrace, rbrace)
	if (l != lbrace || r != rbrace) && line(fset, l) == line(fset, r) {
		return lbrace, rbrace
	}
	return l, r
}

// gap returns the number of lines from a to b, or 0 when they are not
// comparable positions of the same file
func gap(fset *token.FileSet, a, b token.Pos) int {
	if !a.IsValid() || !b.IsValid() || fset.File(a) != fset.File(b) {
		return 0
	}
	return line(fset, b) - line(fset, a)
}

func line(fset *token.FileSet, pos token.Pos) int {
	return fset.Position(pos).Line
}
