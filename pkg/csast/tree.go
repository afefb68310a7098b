package csast

import "iter"

// NewNode returns a detached node spanning [start, end).
func NewNode(kind NodeKind, start, end int) *Node {
	return &Node{Kind: kind, StartOffset: start, EndOffset: end}
}

// Append adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) Append(child *Node) {
	if child.Parent != nil {
		child.Parent.detach(child)
	}
	child.Parent = n
	child.Prev = n.LastChild
	child.Next = nil
	if n.LastChild == nil {
		n.FirstChild = child
	} else {
		n.LastChild.Next = child
	}
	n.LastChild = child
}

func (n *Node) detach(child *Node) {
	if child.Prev == nil {
		n.FirstChild = child.Next
	} else {
		child.Prev.Next = child.Next
	}
	if child.Next == nil {
		n.LastChild = child.Prev
	} else {
		child.Next.Prev = child.Prev
	}
	child.Parent, child.Prev, child.Next = nil, nil, nil
}

// Preorder yields n and its descendants in document order. Breaking out
// of the loop stops the traversal.
func (n *Node) Preorder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.preorder(yield)
	}
}

func (n *Node) preorder(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		if !c.preorder(yield) {
			return false
		}
	}
	return true
}

// Ancestors yields the parent of n, its parent, and so on up to the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		for p := n.Parent; p != nil; p = p.Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Walk calls fn for root and every descendant in document order and stops
// at the first error, which it returns.
func Walk(root *Node, fn func(*Node) error) error {
	for n := range root.Preorder() {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

// FindFirst returns the first node under root, in document order, that
// matches, or nil.
func FindFirst(root *Node, match func(*Node) bool) *Node {
	for n := range root.Preorder() {
		if match(n) {
			return n
		}
	}
	return nil
}

// FindByKind returns every node of kind under root, root included.
func FindByKind(root *Node, kind NodeKind) []*Node {
	var out []*Node
	for n := range root.Preorder() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// FindAncestor returns the nearest strict ancestor of n that matches, or nil.
func FindAncestor(n *Node, match func(*Node) bool) *Node {
	for p := range n.Ancestors() {
		if match(p) {
			return p
		}
	}
	return nil
}

// NodeAt returns the deepest node under root whose span contains offset.
func NodeAt(root *Node, offset int) *Node {
	if root == nil || !root.SourceRange().Contains(offset) {
		return nil
	}
	for n := root; ; {
		next := n.FirstChild
		for next != nil && !next.SourceRange().Contains(offset) {
			next = next.Next
		}
		if next == nil {
			return n
		}
		n = next
	}
}
