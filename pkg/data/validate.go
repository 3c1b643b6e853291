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

import (
	"errors"

	"github.com/openconfig/yangdata/pkg/schema"
)

// A Validator supplies the structural and semantic checks the parser
// delegates.  When/must, mandatory descendants and unique constraints all
// live behind this interface; the parser only decides where in the build
// the hooks run.
type Validator interface {
	// DataContext is called immediately after a node is linked into the
	// tree and before its children are parsed.  It checks positional
	// legality, e.g. choice branch uniqueness.  An error aborts the
	// parse.
	DataContext(n *Node, opts Options, line int) error

	// DataContent is called after the node's children are parsed.  An
	// error wrapping ErrDiscard silently drops the node (filter
	// pruning); any other error aborts the parse.
	DataContent(n *Node, opts Options, line int) error
}

// NopValidator performs no checks.  Install it to disable even the
// default checks.
type NopValidator struct{}

// DataContext implements Validator.
func (NopValidator) DataContext(*Node, Options, int) error { return nil }

// DataContent implements Validator.
func (NopValidator) DataContent(*Node, Options, int) error { return nil }

// DefaultValidator performs the light structural checks the parser can do
// on its own: only one branch of a choice may contribute data, list key
// leaves must be present, and list key values must be unique among sibling
// instances.  The checks are skipped for filter, edit, get and get-config
// documents, which may legally be partial.  Everything heavier (when/must,
// mandatory descendants, unique statements) stays with a caller-supplied
// Validator.
type DefaultValidator struct{}

// DataContext implements Validator.
func (DefaultValidator) DataContext(n *Node, opts Options, line int) error {
	if opts.unresolved() {
		return nil
	}
	choice, branch := choiceBranch(n.Schema)
	if choice == nil {
		return nil
	}
	for s := n.First(); s != nil; s = s.Next {
		if s == n {
			continue
		}
		c, b := choiceBranch(s.Schema)
		if c == choice && b != branch {
			return newError(KindSemantic, line,
				"data from more than one branch of choice %q", choice.Name)
		}
	}
	return nil
}

// DataContent implements Validator.
func (DefaultValidator) DataContent(n *Node, opts Options, line int) error {
	if opts.unresolved() || n.Schema.Kind != schema.List || n.Schema.ListAttr == nil {
		return nil
	}
	keys := n.Schema.ListAttr.Keys
	for _, key := range keys {
		if keyValue(n, key) == nil {
			return newError(KindSemantic, line,
				"missing key %q in list %s", key, n.Schema.Name)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	for m := n.First(); m != nil && m != n; m = m.Next {
		if m.Schema != n.Schema {
			continue
		}
		same := true
		for _, key := range keys {
			mv, nv := keyValue(m, key), keyValue(n, key)
			if mv == nil || nv == nil || mv.ValueStr != nv.ValueStr {
				same = false
				break
			}
		}
		if same {
			return newError(KindSemantic, line, "duplicate key of list %s", n.Schema.Name)
		}
	}
	return nil
}

// choiceBranch returns the choice schema node n sits under, if any, and
// the branch of that choice n belongs to.  Only transparent ancestors are
// crossed, so a choice inside a nested container does not leak out.
func choiceBranch(s *schema.Node) (choice, branch *schema.Node) {
	for p := s.Parent; p != nil && p.IsTransparent(); s, p = p, p.Parent {
		if p.Kind == schema.Choice {
			return p, s
		}
	}
	return nil, nil
}

// keyValue returns the child key leaf named key of the list entry n.
func keyValue(n *Node, key string) *Node {
	for c := n.Child; c != nil; c = c.Next {
		if c.Schema.Name == key && c.Schema.Kind == schema.Leaf {
			return c
		}
	}
	return nil
}

func isDiscard(err error) bool {
	return errors.Is(err, ErrDiscard)
}
