package css

import "sync/atomic"

// Node is the capability set the engine needs from a host tree.
// Navigation methods skip non-element nodes and return nil (an untyped nil interface)
// when there is no such relative.
type Node interface {
	IsElement() bool
	ParentElement() Node
	PreviousElementSibling() Node
	NextElementSibling() Node
	FirstElementChild() Node
	HasChildNodes() bool

	TagName() string
	ID() string
	ClassName() string
	HasAttribute(name string) bool
	GetAttribute(name string) (string, bool)
	TextContent() string
	Disabled() bool
	Checked() bool

	// ElementByID searches the whole document that owns the node.
	ElementByID(id string) Node
	// ElementsByTagName returns the element descendants of the node in document order;
	// "*" matches any tag.
	ElementsByTagName(tag string) []Node
	// Contains reports whether other is the node itself or one of its descendants.
	Contains(other Node) bool
	// ComparePosition orders nodes by document position (negative if the node comes first).
	ComparePosition(other Node) int
}

// ClassIndexer is implemented by hosts with an indexed class lookup.
type ClassIndexer interface {
	ElementsByClassName(name string) []Node
}

// Identifier is implemented by nodes whose dynamic value is not a stable map key.
type Identifier interface {
	UniqueID() uint64
}

// Identity can be embedded into host nodes to implement Identifier.
// Ids are assigned lazily from a process-wide counter and then stay fixed.
type Identity struct{ id atomic.Uint64 }

var lastID atomic.Uint64

func (i *Identity) UniqueID() uint64 {
	if id := i.id.Load(); id != 0 {
		return id
	}
	i.id.CompareAndSwap(0, lastID.Add(1))
	return i.id.Load()
}

func nodeKey(n Node) any {
	if i, ok := n.(Identifier); ok {
		return i.UniqueID()
	}
	return n
}

func sameNode(a, b Node) bool { return nodeKey(a) == nodeKey(b) }
