package fieldfx

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// nodeIDCounter is a plain counter; fieldfx is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the element tree used by a Host. Containers are what games mount
// fields onto; canvas and particle nodes are owned by a mounted field.
// A single flat struct is used for all node types.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Layout. Width/Height are only meaningful for containers; a container
	// with an empty box covers the host viewport.
	X, Y          float64
	Width, Height float64

	// AnchorX/AnchorY place a particle node as a fraction of its parent's
	// box; X/Y are then a pixel offset from that anchor.
	AnchorX, AnchorY float64

	// Appearance
	ScaleX, ScaleY float64
	Rotation       float64 // radians
	Alpha          float64
	Color          colorful.Color
	Size           float64 // particle diameter in pixels
	Shape          Shape
	Visible        bool

	// Ordering
	ZIndex int

	canvas     Canvas
	transition *TweenGroup
	classes    map[string]struct{}

	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = colorful.Color{R: 1, G: 1, B: 1}
	n.Visible = true
	n.childrenSorted = true
}

// NewContainer creates a container node. Give it a box with SetBox, or leave
// it empty to make it cover the host viewport.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

func newCanvasNode(name string, c Canvas) *Node {
	n := &Node{Name: name, Type: NodeTypeCanvas, canvas: c}
	nodeDefaults(n)
	return n
}

func newParticleNode(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeParticle}
	nodeDefaults(n)
	return n
}

// SetBox positions and sizes a container relative to its parent.
func (n *Node) SetBox(x, y, w, h float64) {
	n.X, n.Y, n.Width, n.Height = x, y, w, h
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("fieldfx: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("fieldfx: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("fieldfx: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// drawOrder returns the children sorted by ZIndex, stable by insertion order.
func (n *Node) drawOrder() []*Node {
	if n.childrenSorted && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	n.sortedChildren = append(n.sortedChildren[:0], n.children...)
	sort.SliceStable(n.sortedChildren, func(i, j int) bool {
		return n.sortedChildren[i].ZIndex < n.sortedChildren[j].ZIndex
	})
	n.childrenSorted = true
	return n.sortedChildren
}

// --- Classes ---

// AddClass attaches a marker class to the node.
func (n *Node) AddClass(name string) {
	if n.classes == nil {
		n.classes = make(map[string]struct{})
	}
	n.classes[name] = struct{}{}
}

// RemoveClass detaches a marker class. No-op if absent.
func (n *Node) RemoveClass(name string) {
	delete(n.classes, name)
}

// HasClass reports whether the marker class is attached.
func (n *Node) HasClass(name string) bool {
	_, ok := n.classes[name]
	return ok
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	if n.canvas != nil {
		n.canvas.Deallocate()
		n.canvas = nil
	}
	n.transition = nil
	n.classes = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// walk calls fn for node and every descendant, depth-first. The child list is
// snapshotted per level so fn may detach nodes.
func walk(node *Node, fn func(*Node)) {
	fn(node)
	if len(node.children) == 0 {
		return
	}
	kids := make([]*Node, len(node.children))
	copy(kids, node.children)
	for _, c := range kids {
		if c.Parent == node {
			walk(c, fn)
		}
	}
}
