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

// XPath queries over built data trees.  The navigator presents the tree
// the way the JSON encoding names it: local names are schema names and
// prefixes are module names, so expressions look like
// /ietf-interfaces:interfaces/interface[name='eth0'].

import (
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Find evaluates an XPath expression against the tree rooted at root's
// top-level sibling list and returns the set of matching nodes.
func Find(root *Node, expr string) (*Set, error) {
	if root == nil {
		return NewSet(), nil
	}
	xp, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", expr)
	}
	iter := xp.Select(&navigator{first: root.First()})
	set := NewSet()
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok {
			continue
		}
		if n := nav.node(); n != nil {
			set.Add(n)
		}
	}
	return set, nil
}

// navigator implements xpath.NodeNavigator over a data tree.  The virtual
// document root has the top-level sibling list as children; leafy nodes
// expose their value as a single synthetic text child so value comparisons
// work.
type navigator struct {
	first *Node // first top-level sibling, children of the virtual root
	cur   *Node // nil when on the virtual root
	text  bool  // on the synthetic text child of cur
}

// node returns the data node the navigator points at; the text child maps
// back to its leaf.
func (v *navigator) node() *Node { return v.cur }

func (v *navigator) NodeType() xpath.NodeType {
	switch {
	case v.cur == nil:
		return xpath.RootNode
	case v.text:
		return xpath.TextNode
	}
	return xpath.ElementNode
}

func (v *navigator) LocalName() string {
	if v.cur == nil || v.text {
		return ""
	}
	return v.cur.Schema.Name
}

func (v *navigator) Prefix() string {
	if v.cur == nil || v.text {
		return ""
	}
	return v.cur.Schema.Module.MainModule().Name
}

func (v *navigator) Value() string {
	if v.cur == nil {
		return ""
	}
	return stringValue(v.cur)
}

// stringValue is the XPath string-value: a leaf's own value, the
// concatenated leaf values for inner nodes.
func stringValue(n *Node) string {
	if n.Schema.IsLeafy() {
		return n.ValueStr
	}
	s := ""
	for c := n.Child; c != nil; c = c.Next {
		s += stringValue(c)
	}
	return s
}

func (v *navigator) Copy() xpath.NodeNavigator {
	c := *v
	return &c
}

func (v *navigator) MoveToRoot() {
	v.cur = nil
	v.text = false
}

func (v *navigator) MoveToParent() bool {
	switch {
	case v.text:
		v.text = false
		return true
	case v.cur == nil:
		return false
	}
	v.cur = v.cur.Parent
	return true
}

func (v *navigator) MoveToNextAttribute() bool { return false }

func (v *navigator) MoveToChild() bool {
	if v.text {
		return false
	}
	if v.cur == nil {
		if v.first == nil {
			return false
		}
		v.cur = v.first
		return true
	}
	if v.cur.Schema.IsLeafy() {
		if v.cur.ValueStr == "" {
			return false
		}
		v.text = true
		return true
	}
	if v.cur.Child == nil {
		return false
	}
	v.cur = v.cur.Child
	return true
}

func (v *navigator) MoveToFirst() bool {
	if v.cur == nil || v.text {
		return false
	}
	v.cur = v.cur.First()
	return true
}

func (v *navigator) MoveToNext() bool {
	if v.cur == nil || v.text || v.cur.Next == nil {
		return false
	}
	v.cur = v.cur.Next
	return true
}

func (v *navigator) MoveToPrevious() bool {
	if v.cur == nil || v.text || v.cur.Prev.Next == nil {
		return false
	}
	v.cur = v.cur.Prev
	return true
}

func (v *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.first != v.first {
		return false
	}
	v.cur = o.cur
	v.text = o.text
	return true
}
