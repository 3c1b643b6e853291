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

// Package schema holds the resolved YANG schema tree consumed by the data
// tree parsers and printers.  It is the product of an external schema
// loader; this package only provides the representation, construction
// helpers and lookups.  A Context and everything reachable from it is
// treated as read-only while data trees are being parsed or printed.
package schema

import (
	"fmt"

	"github.com/openconfig/yangdata/pkg/dict"
)

// A NodeKind is the kind of a schema node.  Transparent kinds shape the
// schema tree but never appear in instance data.
type NodeKind int

const (
	// Container is a YANG container.
	Container = NodeKind(iota)
	// List is a YANG list.
	List
	// Leaf is a YANG leaf.
	Leaf
	// LeafList is a YANG leaf-list.
	LeafList
	// AnyXML is a YANG anyxml node; instances hold opaque XML.
	AnyXML
	// Choice is a YANG choice (transparent).
	Choice
	// Case is a YANG case (transparent).
	Case
	// Uses is a YANG uses (transparent).
	Uses
	// Grouping is a YANG grouping; never instantiated, always skipped.
	Grouping
	// Input is the input block of an RPC (transparent).
	Input
	// Output is the output block of an RPC (transparent).
	Output
	// RPC is a YANG rpc node.
	RPC
	// Notification is a YANG notification node.
	Notification
	// Augment is a YANG augment; resolved into the target by the loader.
	Augment
)

var kindNames = map[NodeKind]string{
	Container:    "container",
	List:         "list",
	Leaf:         "leaf",
	LeafList:     "leaf-list",
	AnyXML:       "anyxml",
	Choice:       "choice",
	Case:         "case",
	Uses:         "uses",
	Grouping:     "grouping",
	Input:        "input",
	Output:       "output",
	RPC:          "rpc",
	Notification: "notification",
	Augment:      "augment",
}

func (k NodeKind) String() string {
	if s := kindNames[k]; s != "" {
		return s
	}
	return fmt.Sprintf("kind-%d", k)
}

// Flags are the boolean properties of a schema node.
type Flags uint32

const (
	// FlagConfig marks configuration (read-write) nodes.
	FlagConfig = Flags(1 << iota)
	// FlagMandatory marks mandatory nodes.
	FlagMandatory
	// FlagUserOrdered marks ordered-by user lists and leaf-lists.
	FlagUserOrdered
	// FlagDeprecated marks status deprecated.
	FlagDeprecated
	// FlagObsolete marks status obsolete.
	FlagObsolete
)

// A ListAttr carries the properties specific to List and LeafList nodes.
type ListAttr struct {
	// Keys holds the key leaf names of a list, in declaration order.
	Keys []string
	// MinElements is the smallest allowed number of instances.
	MinElements uint64
	// MaxElements is the largest allowed number of instances; 0 means
	// unbounded.
	MaxElements uint64
}

// A Node is a single node of the schema tree.  Sibling nodes are linked
// through Next and Prev; children hang off Child.  Name comparisons
// against data are identity comparisons on strings interned in the owning
// context's dictionary.
type Node struct {
	Name   string
	Kind   NodeKind
	Module *Module
	Flags  Flags
	When   string // when expression, evaluated by an external validator

	Parent *Node
	Child  *Node
	Next   *Node
	Prev   *Node // previous sibling, nil for the first

	// Type is set for Leaf and LeafList nodes.
	Type *Type

	// ListAttr is set for List and LeafList nodes.
	ListAttr *ListAttr
}

// IsTransparent reports whether n shapes the schema tree without appearing
// in instance data.  Grouping is not transparent; it is skipped entirely
// during data binding.
func (n *Node) IsTransparent() bool {
	switch n.Kind {
	case Choice, Case, Uses, Input, Output:
		return true
	}
	return false
}

// IsLeafy reports whether instances of n carry a value rather than
// children.
func (n *Node) IsLeafy() bool {
	return n.Kind == Leaf || n.Kind == LeafList
}

// HasChildren reports whether instances of n may have child data nodes.
func (n *Node) HasChildren() bool {
	switch n.Kind {
	case Container, List, RPC, Notification:
		return true
	}
	return false
}

// AppendChild appends c as the last child of n and returns c.
func (n *Node) AppendChild(c *Node) *Node {
	c.Parent = n
	if n.Child == nil {
		n.Child = c
		return c
	}
	last := n.Child
	for last.Next != nil {
		last = last.Next
	}
	last.Next = c
	c.Prev = last
	return c
}

// DataParent returns the closest ancestor of n that appears in instance
// data, skipping transparent nodes, or nil for top-level nodes.
func (n *Node) DataParent() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if !p.IsTransparent() {
			return p
		}
	}
	return nil
}

// A Module is a YANG module or submodule.  A submodule has BelongsTo set to
// its main module and shares its namespace.
type Module struct {
	Name       string
	Namespace  string
	Prefix     string
	BelongsTo  *Module
	Imports    []*Import
	Identities []*Identity

	// Data is the first top-level data definition of the module; its
	// siblings are linked through Next.
	Data *Node

	ctx *Context
}

// An Import is a reference from one module to another under a local prefix.
type Import struct {
	Module *Module
	Prefix string
}

// MainModule returns the module m belongs to: m itself for modules, the
// belongs-to module for submodules.
func (m *Module) MainModule() *Module {
	if m.BelongsTo != nil {
		return m.BelongsTo
	}
	return m
}

// Context returns the schema context m was added to.
func (m *Module) Context() *Context { return m.ctx }

// A Context is a set of loaded modules together with the string dictionary
// that owns every name used by them.
type Context struct {
	Dict    *dict.Dict
	Modules []*Module
}

// NewContext creates an empty schema context with a fresh dictionary.
func NewContext() *Context {
	return &Context{Dict: dict.New()}
}

// AddModule adds m to the context, interning its names.  Modules must not
// be added while a parse is in progress.
func (c *Context) AddModule(m *Module) {
	m.ctx = c
	m.Name = c.Dict.Insert(m.Name)
	m.Namespace = c.Dict.Insert(m.Namespace)
	if m.Prefix != "" {
		m.Prefix = c.Dict.Insert(m.Prefix)
	}
	for _, i := range m.Identities {
		i.Name = c.Dict.Insert(i.Name)
		if i.Module == nil {
			i.Module = m
		}
	}
	for n := m.Data; n != nil; n = n.Next {
		c.internNode(m, n)
	}
	c.Modules = append(c.Modules, m)
}

func (c *Context) internNode(m *Module, n *Node) {
	n.Name = c.Dict.Insert(n.Name)
	if n.Module == nil {
		n.Module = m
	}
	for ch := n.Child; ch != nil; ch = ch.Next {
		c.internNode(m, ch)
	}
}

// ModuleByNamespace returns the module with the given namespace URI, or nil.
// Submodules share their main module's namespace; the main module wins.
func (c *Context) ModuleByNamespace(ns string) *Module {
	var sub *Module
	for _, m := range c.Modules {
		if m.Namespace != ns {
			continue
		}
		if m.BelongsTo == nil {
			return m
		}
		if sub == nil {
			sub = m
		}
	}
	if sub != nil {
		return sub.MainModule()
	}
	return nil
}

// ModuleByName returns the module named name, or nil.
func (c *Context) ModuleByName(name string) *Module {
	for _, m := range c.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}
