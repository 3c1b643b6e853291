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

package data

// Programmatic tree construction.  These builders create nodes bound to
// their schema without going through an input document; values are given
// in canonical JSON form.

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/openconfig/yangdata/pkg/schema"
)

// findSchemaFor locates the schema node named name under parent (or among
// the top-level definitions of module when parent is nil).
func findSchemaFor(parent *Node, module *schema.Module, name string) *schema.Node {
	if parent != nil {
		return searchSchemaNode(parent.Schema.Child, name, module.MainModule().Namespace)
	}
	return searchSchemaNode(module.Data, name, module.MainModule().Namespace)
}

// New creates a new container, list, rpc or notification node and links it
// as the last child of parent.  A nil parent creates a top-level node.
func New(parent *Node, module *schema.Module, name string) (*Node, error) {
	sn := findSchemaFor(parent, module, name)
	if sn == nil {
		return nil, newError(KindSchemaBinding, 0, "unknown node %q in module %s", name, module.Name)
	}
	if !sn.HasChildren() {
		return nil, newError(KindSchemaBinding, 0, "node %q is not a container kind", name)
	}
	n := &Node{Schema: sn}
	n.Prev = n
	if parent != nil {
		if err := Insert(parent, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// NewLeaf creates a new leaf or leaf-list node with the given value in
// canonical JSON form and links it as the last child of parent.  Leafref
// and instance-identifier values stay unresolved until ResolveReferences
// runs over the finished tree.
func NewLeaf(parent *Node, module *schema.Module, name, value string) (*Node, error) {
	sn := findSchemaFor(parent, module, name)
	if sn == nil {
		return nil, newError(KindSchemaBinding, 0, "unknown node %q in module %s", name, module.Name)
	}
	if !sn.IsLeafy() {
		return nil, newError(KindSchemaBinding, 0, "node %q is not a leaf kind", name)
	}
	ctx := module.Context()
	n := &Node{Schema: sn}
	n.Prev = n
	if value != "" {
		n.ValueStr = ctx.Dict.Insert(value)
	}
	release := func() {
		if n.ValueStr != "" {
			ctx.Dict.Remove(n.ValueStr)
		}
	}
	// Builders feed canonical text, so the plain decode applies, unions
	// included.
	if err := applyValue(ctx, n, sn.Type, n.ValueStr, false, nil, 0); err != nil {
		release()
		return nil, err
	}
	if parent != nil {
		if err := Insert(parent, n); err != nil {
			release()
			return nil, err
		}
	}
	return n, nil
}

// NewAnyXML creates a new anyxml node holding the given payload and links
// it as the last child of parent.
func NewAnyXML(parent *Node, module *schema.Module, name string, payload []*xmlquery.Node) (*Node, error) {
	sn := findSchemaFor(parent, module, name)
	if sn == nil {
		return nil, newError(KindSchemaBinding, 0, "unknown node %q in module %s", name, module.Name)
	}
	if sn.Kind != schema.AnyXML {
		return nil, newError(KindSchemaBinding, 0, "node %q is not an anyxml", name)
	}
	n := &Node{Schema: sn, XML: payload}
	n.Prev = n
	if parent != nil {
		if err := Insert(parent, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Dup copies node, keeping the schema binding.  With recursive true the
// whole subtree is copied.  The copy is unlinked.
func Dup(node *Node, recursive bool) *Node {
	ctx := node.Schema.Module.Context()
	n := &Node{
		Schema:    node.Schema,
		Value:     node.Value,
		ValueType: node.ValueType,
		Unres:     node.Unres,
		XML:       node.XML,
	}
	n.Prev = n
	if node.ValueStr != "" {
		n.ValueStr = ctx.Dict.Insert(node.ValueStr)
	}
	for _, a := range node.Attr {
		n.Attr = append(n.Attr, &Attr{
			Module: a.Module,
			Name:   ctx.Dict.Insert(a.Name),
			Value:  ctx.Dict.Insert(a.Value),
		})
	}
	if recursive {
		var last *Node
		for c := node.Child; c != nil; c = c.Next {
			d := Dup(c, true)
			linkChild(n, last, d)
			last = d
		}
	}
	return n
}

// InsertAttr attaches an attribute to node.  The name may carry a module
// name prefix; without one the attribute belongs to node's own module.
func InsertAttr(node *Node, name, value string) (*Attr, error) {
	ctx := node.Schema.Module.Context()
	mod := node.Schema.Module.MainModule()
	if i := strings.IndexByte(name, ':'); i >= 0 {
		mod = ctx.ModuleByName(name[:i])
		if mod == nil {
			return nil, newError(KindSchemaBinding, 0, "unknown module %q of attribute %q", name[:i], name)
		}
		name = name[i+1:]
	}
	a := &Attr{
		Module: mod,
		Name:   ctx.Dict.Insert(name),
		Value:  ctx.Dict.Insert(value),
	}
	node.Attr = append(node.Attr, a)
	return a, nil
}
