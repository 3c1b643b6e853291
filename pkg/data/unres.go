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

// Deferred reference resolution.  Leafref and instance-identifier values
// are recorded while the tree is built and resolved in a single pass once
// the whole document exists, so forward references never observe a partial
// tree.

import (
	"strings"

	"github.com/openconfig/yangdata/pkg/schema"
)

// An unresItem is one deferred reference: the leaf holding the value and
// the kind of resolution it needs.
type unresItem struct {
	node *Node
	kind schema.TypeKind
	line int
}

// unresData collects the deferred references of one parse.  It lives and
// dies with the parse context.
type unresData struct {
	items []unresItem
}

func (u *unresData) add(n *Node, kind schema.TypeKind, line int) {
	u.items = append(u.items, unresItem{node: n, kind: kind, line: line})
}

// resolve runs the deferred pass over all recorded references.  roots is
// the first tree of the top-level sibling list.
func (u *unresData) resolve(ctx *schema.Context, roots *Node) error {
	for _, it := range u.items {
		var err error
		switch it.kind {
		case schema.Yleafref:
			err = resolveLeafref(ctx, it.node, roots, it.line)
		case schema.YinstanceIdentifier:
			err = resolveInstance(ctx, it.node, roots, it.line)
		default:
			err = newError(KindInternal, it.line, "unexpected deferred kind %s", it.kind)
		}
		if err != nil {
			return err
		}
	}
	u.items = nil
	return nil
}

func leafrefType(t *schema.Type, kind schema.TypeKind) *schema.Type {
	if t.Kind == schema.Yunion {
		for _, sub := range flattenUnion(t) {
			if sub.Kind == kind {
				return sub
			}
		}
	}
	return t
}

func resolveLeafref(ctx *schema.Context, n *Node, roots *Node, line int) error {
	t := leafrefType(n.Schema.Type, schema.Yleafref)
	matches, err := resolveDataPath(ctx, n, roots, t.Path)
	if err != nil {
		return newError(KindReference, line, "leafref path %q of %s: %v", t.Path, n.Schema.Name, err)
	}
	for _, m := range matches {
		if m.Schema.IsLeafy() && m.ValueStr == n.ValueStr {
			n.Value.Leafref = m
			n.Unres = false
			return nil
		}
	}
	if t.RequireInstance {
		return newError(KindReference, line,
			"leafref %q of %s points to no existing leaf", n.ValueStr, n.Schema.Name)
	}
	n.Unres = false
	return nil
}

func resolveInstance(ctx *schema.Context, n *Node, roots *Node, line int) error {
	t := leafrefType(n.Schema.Type, schema.YinstanceIdentifier)
	matches, err := resolveDataPath(ctx, n, roots, n.ValueStr)
	if err != nil {
		return newError(KindReference, line, "instance-identifier %q of %s: %v", n.ValueStr, n.Schema.Name, err)
	}
	if len(matches) > 0 {
		n.Value.Instance = matches[0]
		n.Unres = false
		return nil
	}
	if t.RequireInstance {
		return newError(KindReference, line,
			"instance-identifier %q of %s points to no existing node", n.ValueStr, n.Schema.Name)
	}
	n.Unres = false
	return nil
}

// ResolveReferences resolves the leafref and instance-identifier values of
// every unresolved leaf in the tree rooted at the top-level sibling list
// of root.  It is used after building trees programmatically.
func ResolveReferences(root *Node) error {
	if root == nil {
		return nil
	}
	ctx := root.Schema.Module.Context()
	first := root.First()
	var u unresData
	for n := first; n != nil; n = n.Next {
		collectUnres(n, &u)
	}
	return u.resolve(ctx, first)
}

func collectUnres(n *Node, u *unresData) {
	if n.Unres {
		switch n.ValueType {
		case schema.Yleafref, schema.YinstanceIdentifier:
			u.add(n, n.ValueType, 0)
		}
	}
	for c := n.Child; c != nil; c = c.Next {
		collectUnres(c, u)
	}
}

// resolveDataPath evaluates the restricted path expression against the
// data tree: relative paths start at n itself, absolute paths at the
// top-level sibling list containing roots.
func resolveDataPath(ctx *schema.Context, n *Node, roots *Node, expr string) ([]*Node, error) {
	steps, absolute, err := parsePath(expr)
	if err != nil {
		return nil, err
	}
	var cur []*Node
	if absolute {
		cur = []*Node{nil} // nil stands for the virtual document root
	} else {
		cur = []*Node{n}
	}
	mod := n.Schema.Module.MainModule()
	top := roots.First()

	for _, step := range steps {
		switch step.Name {
		case ".":
			continue
		case "..":
			next := make([]*Node, 0, len(cur))
			for _, c := range cur {
				if c == nil {
					return nil, newError(KindReference, 0, "path %q climbs above the document root", expr)
				}
				next = appendNode(next, c.Parent)
			}
			cur = next
			continue
		}
		if step.Module != "" {
			m := ctx.ModuleByName(step.Module)
			if m == nil {
				return nil, newError(KindReference, 0, "unknown module %q in path %q", step.Module, expr)
			}
			mod = m.MainModule()
		}
		var next []*Node
		for _, c := range cur {
			first := top
			if c != nil {
				first = c.Child
			}
			pos := 0
			for d := first; d != nil; d = d.Next {
				if d.Schema.Name != step.Name || d.Schema.Module.MainModule() != mod {
					continue
				}
				pos++
				if matchPreds(d, step.Preds, pos, mod) {
					next = append(next, d)
				}
			}
		}
		cur = next
		if len(cur) == 0 {
			return nil, nil
		}
	}
	out := make([]*Node, 0, len(cur))
	for _, c := range cur {
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func appendNode(list []*Node, n *Node) []*Node {
	for _, have := range list {
		if have == n {
			return list
		}
	}
	return append(list, n)
}

// matchPreds checks the predicates of one step against a candidate node.
// pos is the 1-based position of the candidate among its same-schema
// siblings.
func matchPreds(n *Node, preds []pathPred, pos int, mod *schema.Module) bool {
	for _, p := range preds {
		switch {
		case p.Pos > 0:
			if pos != p.Pos {
				return false
			}
		case p.Name == ".":
			if n.ValueStr != p.Value {
				return false
			}
		default:
			name := p.Name
			if i := strings.IndexByte(name, ':'); i >= 0 {
				// Key prefixes name the key's module; keys live in
				// their list's module, so the prefix only has to
				// match for the value to be comparable.
				name = name[i+1:]
			}
			found := false
			for c := n.Child; c != nil; c = c.Next {
				if c.Schema.Name == name && c.Schema.IsLeafy() {
					found = c.ValueStr == p.Value
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
