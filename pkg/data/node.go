// Copyright 2021 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package data builds, resolves, and serializes YANG data trees.  Input
// documents arrive as XML element trees produced by xmlquery; every data
// node is bound to a node of a schema.Context during parsing and values are
// decoded against their schema types.  Trees print back to XML or JSON.
package data

import (
	"github.com/antchfx/xmlquery"

	"github.com/openconfig/yangdata/pkg/schema"
)

// An Attr is an attribute attached to a data node.  The module is the one
// whose namespace qualified the attribute in the input.
type Attr struct {
	Module *schema.Module
	Name   string
	Value  string
}

// A Value is the decoded representation of a leaf value.  Only the field
// matching the node's ValueType is meaningful.
type Value struct {
	Bool   bool
	Int    int64  // int8..int64
	Uint   uint64 // uint8..uint64
	Dec64  int64  // decimal64 scaled by 10^fraction-digits
	String string // string and binary (base64 text)
	Enum   *schema.EnumValue
	Bits   []*schema.BitValue // one slot per bit defined by the type
	Ident  *schema.Identity

	// Leafref and Instance are filled by the deferred resolution pass.
	Leafref  *Node
	Instance *Node
}

// A Node is a single node of a data tree.  The sibling list is doubly
// linked with a closed prev ring: Prev is never nil, the first sibling's
// Prev points at the last sibling, and only the last sibling has a nil
// Next.
type Node struct {
	Schema *schema.Node
	Attr   []*Attr

	Next   *Node
	Prev   *Node
	Parent *Node

	// Child is the first child of container, list, rpc and notification
	// nodes.
	Child *Node

	// Leaf and leaf-list fields.
	ValueStr  string // canonical textual value, interned
	Value     Value
	ValueType schema.TypeKind
	Unres     bool // value stored syntactically, reference not resolved

	// XML is the detached payload of an anyxml node.
	XML []*xmlquery.Node
}

// First returns the first node of n's sibling list.
func (n *Node) First() *Node {
	for n.Prev.Next != nil {
		n = n.Prev
	}
	return n
}

// Last returns the last node of n's sibling list.
func (n *Node) Last() *Node {
	return n.First().Prev
}

// linkNewLast appends n after last, the current last sibling, fixing the
// prev ring.
func linkNewLast(last, n *Node) {
	n.Prev = last
	last.Next = n
	first := last
	for first.Prev != last {
		first = first.Prev
	}
	first.Prev = n
}

// linkChild attaches n as the new last child of parent, in the sibling list
// of prev (nil if n is the first child produced so far).  prev need not be
// the last sibling: an edit insert may have moved it forward.
func linkChild(parent, prev, n *Node) {
	n.Parent = parent
	if parent != nil && parent.Child == nil {
		parent.Child = n
	}
	if prev != nil {
		linkNewLast(prev.Last(), n)
	} else {
		n.Prev = n
	}
}

// Unlink detaches n (with its subtree) from its parent and siblings.  The
// node keeps its schema binding and can be inserted elsewhere.
func Unlink(n *Node) {
	first := n.First()
	if n.Parent != nil && n.Parent.Child == n {
		n.Parent.Child = n.Next
	}
	switch {
	case first == n && n.Next == nil:
		// only sibling
	case first == n:
		n.Next.Prev = n.Prev
	case n.Next == nil:
		n.Prev.Next = nil
		first.Prev = n.Prev
	default:
		n.Prev.Next = n.Next
		n.Next.Prev = n.Prev
	}
	n.Parent = nil
	n.Next = nil
	n.Prev = n
}

// dictOf returns the dictionary owning n's interned strings.
func dictOf(n *Node) interface{ Remove(string) } {
	return n.Schema.Module.Context().Dict
}

// FreeTree unlinks n and releases the dictionary references held by n and
// its subtree.  The nodes must not be used afterwards.
func FreeTree(n *Node) {
	if n == nil {
		return
	}
	Unlink(n)
	freeSubtree(n)
}

// FreeSiblings releases n and all of its following siblings.
func FreeSiblings(n *Node) {
	for n != nil {
		next := n.Next
		FreeTree(n)
		n = next
	}
}

func freeSubtree(n *Node) {
	d := dictOf(n)
	for c := n.Child; c != nil; {
		next := c.Next
		freeSubtree(c)
		c = next
	}
	n.Child = nil
	for _, a := range n.Attr {
		d.Remove(a.Name)
		d.Remove(a.Value)
	}
	n.Attr = nil
	if n.Schema.IsLeafy() && n.ValueStr != "" {
		d.Remove(n.ValueStr)
	}
	n.ValueStr = ""
	n.XML = nil
}

// schemaChildOf reports whether the schema node s is, after skipping
// transparent ancestors, a child of parent's schema (or a top-level node
// when parent is nil).
func schemaChildOf(parent *Node, s *schema.Node) bool {
	dp := s.DataParent()
	if parent == nil {
		return dp == nil
	}
	return dp == parent.Schema
}

// Insert appends node as the last child of parent.  The node is unlinked
// from its previous position first.  It is an error to insert a node whose
// schema does not belong under parent's schema.
func Insert(parent, node *Node) error {
	if !schemaChildOf(parent, node.Schema) {
		return newError(KindSchemaBinding, 0, "node %s cannot be a child of %s",
			node.Schema.Name, parent.Schema.Name)
	}
	Unlink(node)
	if parent.Child == nil {
		node.Parent = parent
		parent.Child = node
		return nil
	}
	last := parent.Child.Last()
	node.Parent = parent
	linkNewLast(last, node)
	return nil
}

// InsertBefore places node immediately before sibling in sibling's list.
func InsertBefore(sibling, node *Node) error {
	if !schemaChildOf(sibling.Parent, node.Schema) {
		return newError(KindSchemaBinding, 0, "node %s cannot be a sibling of %s",
			node.Schema.Name, sibling.Schema.Name)
	}
	Unlink(node)
	node.Parent = sibling.Parent
	node.Next = sibling
	node.Prev = sibling.Prev
	if sibling.Prev.Next != nil {
		sibling.Prev.Next = node
	}
	sibling.Prev = node
	if sibling.Parent != nil && sibling.Parent.Child == sibling {
		sibling.Parent.Child = node
	}
	return nil
}

// InsertAfter places node immediately after sibling in sibling's list.
func InsertAfter(sibling, node *Node) error {
	if !schemaChildOf(sibling.Parent, node.Schema) {
		return newError(KindSchemaBinding, 0, "node %s cannot be a sibling of %s",
			node.Schema.Name, sibling.Schema.Name)
	}
	Unlink(node)
	node.Parent = sibling.Parent
	node.Next = sibling.Next
	node.Prev = sibling
	if sibling.Next != nil {
		sibling.Next.Prev = node
	} else {
		sibling.First().Prev = node
	}
	sibling.Next = node
	return nil
}

// A Set holds an unordered collection of data nodes, not necessarily from
// one tree.
type Set struct {
	Nodes []*Node
}

// NewSet creates an empty set.
func NewSet() *Set { return &Set{} }

// Add appends n to the set unless it is already present.
func (s *Set) Add(n *Node) {
	for _, have := range s.Nodes {
		if have == n {
			return
		}
	}
	s.Nodes = append(s.Nodes, n)
}

// Len returns the number of nodes in the set.
func (s *Set) Len() int { return len(s.Nodes) }
