package api

// AstNode is one node of a parsed tree. The first-child/next-sibling shape
// carries enough structure for an iterative depth-first traversal without
// recursion or an explicit stack. Nodes are owned by the parse result of
// one file and are read-only while the tree is being walked, so concurrent
// per-check tasks may read them freely.
type AstNode struct {
	// Type is the token type tag the checks register interest in.
	Type string
	// Text is the source text of the node, when meaningful.
	Text string
	// Line and Column are 1-based positions in the source file.
	Line   int
	Column int

	Parent      *AstNode
	FirstChild  *AstNode
	NextSibling *AstNode

	lastChild *AstNode
}

// AddChild appends child as the last child of n and wires the sibling and
// parent links.
func (n *AstNode) AddChild(child *AstNode) *AstNode {
	child.Parent = n
	if n.FirstChild == nil {
		n.FirstChild = child
	} else {
		n.lastChild.NextSibling = child
	}
	n.lastChild = child
	return n
}

// ChildCount returns the number of direct children.
func (n *AstNode) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		count++
	}
	return count
}

// FindFirst returns the first node of the given type in depth-first order,
// starting from and including n, or nil.
func (n *AstNode) FindFirst(nodeType string) *AstNode {
	cur := n
	for cur != nil {
		if cur.Type == nodeType {
			return cur
		}
		next := cur.FirstChild
		for cur != nil && next == nil {
			if cur == n {
				return nil
			}
			next = cur.NextSibling
			if next == nil {
				cur = cur.Parent
			}
		}
		cur = next
	}
	return nil
}
