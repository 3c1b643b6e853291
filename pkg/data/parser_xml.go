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

// XML data parser.  The input is an element tree produced by xmlquery; the
// output is a data tree bound to the schema context.  Parsing is a single
// recursion over elements: bind the schema node, decode the value, link
// the node, recurse, then run the deferred reference pass once the whole
// document is built.

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/openconfig/yangdata/pkg/schema"
)

// nsYang is the namespace carrying the insert and value edit attributes.
const nsYang = "urn:ietf:params:xml:ns:yang:1"

type parser struct {
	ctx       *schema.Context
	opts      Options
	unres     *unresData
	validator Validator
}

// ParseXML parses the element children of root, which is typically the
// document node returned by xmlquery.Parse, against the schema context.
// The returned node is the first tree of the top-level sibling list; a
// document whose elements were all skipped in lax mode yields (nil, nil).
//
// Anyxml payloads are detached from the input tree, so the input is
// mutated even without the Destruct option; callers that need the input
// intact afterwards must copy it first.
func ParseXML(ctx *schema.Context, root *xmlquery.Node, opts Options, po ...ParseOption) (*Node, error) {
	return parseDocument(ctx, nil, root, opts, po)
}

// ParseRPCOutputXML parses the element children of root as the output of
// the given rpc schema node.
func ParseRPCOutputXML(rpc *schema.Node, root *xmlquery.Node, opts Options, po ...ParseOption) (*Node, error) {
	if rpc == nil || rpc.Kind != schema.RPC {
		return nil, newError(KindInternal, 0, "schema node is not an rpc")
	}
	return parseDocument(rpc.Module.Context(), rpc, root, opts, po)
}

func parseDocument(ctx *schema.Context, schemaParent *schema.Node, root *xmlquery.Node, opts Options, po []ParseOption) (*Node, error) {
	if ctx == nil || root == nil {
		return nil, newError(KindInternal, 0, "invalid parameter")
	}
	p := &parser{ctx: ctx, opts: opts, unres: &unresData{}, validator: DefaultValidator{}}
	for _, o := range po {
		o(p)
	}

	var result, last *Node
	elements := 0
	for el := root.FirstChild; el != nil; {
		next := el.NextSibling
		if el.Type != xmlquery.ElementNode {
			el = next
			continue
		}
		elements++
		n, err := p.parseElement(el, schemaParent, nil, last)
		if opts&Destruct != 0 {
			xmlquery.RemoveFromTree(el)
		}
		if err != nil {
			if result != nil {
				FreeSiblings(result.First())
			}
			return nil, err
		}
		if n != nil {
			last = n
			if result == nil {
				result = n
			}
		}
		el = next
	}

	if result == nil {
		// A document without a single element has no data model to
		// bind against; elements skipped in lax mode or discarded by
		// the validator legitimately leave an empty tree.
		if elements == 0 {
			return nil, newError(KindSchemaBinding, 0, "no data model found")
		}
		return nil, nil
	}
	// Edit-mode inserts may have repositioned the first tree.
	result = result.First()
	if err := p.unres.resolve(p.ctx, result); err != nil {
		FreeSiblings(result)
		return nil, err
	}
	return result, nil
}

// searchSchemaNode finds the schema node defining an element with the
// given interned name and namespace, iterating the sibling list rooted at
// start.  Groupings are skipped; transparent nodes are descended through.
func searchSchemaNode(start *schema.Node, name, ns string) *schema.Node {
	for n := start; n != nil; n = n.Next {
		if n.Kind == schema.Grouping {
			continue
		}
		if n.IsTransparent() {
			if r := searchSchemaNode(n.Child, name, ns); r != nil {
				return r
			}
			continue
		}
		if n.Name == name && n.Module.MainModule().Namespace == ns {
			return n
		}
	}
	return nil
}

// parseElement builds the data node for a single element and recurses over
// its children.  A nil node with a nil error means the element was
// silently skipped or discarded.
func (p *parser) parseElement(el *xmlquery.Node, schemaParent *schema.Node, parent, prev *Node) (*Node, error) {
	ns := el.NamespaceURI
	if ns == "" {
		return nil, newError(KindStructural, 0, "element %q has no namespace", el.Data)
	}
	name := p.ctx.Dict.Insert(el.Data)
	defer p.ctx.Dict.Remove(name)

	var sn *schema.Node
	switch {
	case schemaParent != nil:
		sn = searchSchemaNode(schemaParent.Child, name, ns)
	case parent == nil:
		// Starting in root: select the data model by namespace.
		for _, m := range p.ctx.Modules {
			if m.Namespace == ns {
				sn = searchSchemaNode(m.Data, name, ns)
				break
			}
		}
	default:
		sn = searchSchemaNode(parent.Schema.Child, name, ns)
	}
	if sn == nil {
		if p.opts&Strict != 0 || p.ctx.ModuleByNamespace(ns) != nil {
			return nil, newError(KindSchemaBinding, 0, "unknown element %q in namespace %q", el.Data, ns)
		}
		logger.Debug().Str("element", el.Data).Str("namespace", ns).Msg("skipping unknown element")
		return nil, nil
	}

	if p.opts&Edit != 0 {
		if err := p.checkEditAttrs(el, sn); err != nil {
			return nil, err
		}
	}

	switch sn.Kind {
	case schema.Container, schema.List, schema.RPC, schema.Notification,
		schema.Leaf, schema.LeafList, schema.AnyXML:
	default:
		return nil, newError(KindInternal, 0, "schema node %q is not instantiable", sn.Name)
	}

	n := &Node{Schema: sn}
	linkChild(parent, prev, n)

	if err := p.validator.DataContext(n, p.opts, 0); err != nil {
		FreeTree(n)
		return nil, err
	}

	switch {
	case sn.IsLeafy():
		if err := p.getValue(n, el); err != nil {
			FreeTree(n)
			return nil, err
		}
	case sn.Kind == schema.AnyXML && p.opts&Filter == 0:
		// Unlink the XML children; they become the anyxml payload.
		for c := el.FirstChild; c != nil; {
			next := c.NextSibling
			xmlquery.RemoveFromTree(c)
			n.XML = append(n.XML, c)
			c = next
		}
	}

	if err := p.copyAttrs(n, el); err != nil {
		FreeTree(n)
		return nil, err
	}

	if sn.HasChildren() {
		childOpts := p.opts
		if sn.Kind == schema.RPC || sn.Kind == schema.Notification {
			// RPC and notification subtrees are always full
			// instances, never filters.
			childOpts = 0
		}
		cp := p
		if childOpts != p.opts {
			cp = &parser{ctx: p.ctx, opts: childOpts, unres: p.unres, validator: p.validator}
		}
		var dlast *Node
		for c := el.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type != xmlquery.ElementNode {
				c = next
				continue
			}
			d, err := cp.parseElement(c, nil, n, dlast)
			if p.opts&Destruct != 0 {
				xmlquery.RemoveFromTree(c)
			}
			if err != nil {
				FreeTree(n)
				return nil, err
			}
			if d != nil {
				dlast = d
			}
			c = next
		}
	}

	if p.opts&Edit != 0 && sn.Flags&schema.FlagUserOrdered != 0 {
		if err := p.applyInsert(n, el); err != nil {
			FreeTree(n)
			return nil, err
		}
	}

	if err := p.validator.DataContent(n, p.opts, 0); err != nil {
		FreeTree(n)
		if isDiscard(err) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// applyInsert repositions a freshly linked user-ordered list or leaf-list
// entry according to its insert and value attributes.  The entry starts
// out as the last sibling, so insert="last" is a no-op.
func (p *parser) applyInsert(n *Node, el *xmlquery.Node) error {
	var ins, val string
	hasVal := false
	for _, a := range el.Attr {
		if p.attrNS(el, a) != nsYang {
			continue
		}
		switch a.Name.Local {
		case "insert":
			ins = a.Value
		case "value":
			val = a.Value
			hasVal = true
		}
	}
	switch ins {
	case "", "last":
		return nil
	case "first":
		first := firstInstance(n)
		if first != n {
			return InsertBefore(first, n)
		}
		return nil
	}
	target := p.findInsertTarget(n, val, hasVal)
	if target == nil {
		return newError(KindSemantic, 0, "insert target %q of %s not found", val, n.Schema.Name)
	}
	if ins == "before" {
		return InsertBefore(target, n)
	}
	return InsertAfter(target, n)
}

// firstInstance returns the first sibling sharing n's schema.
func firstInstance(n *Node) *Node {
	for m := n.First(); m != nil; m = m.Next {
		if m.Schema == n.Schema {
			return m
		}
	}
	return n
}

// findInsertTarget locates the sibling entry named by the value attribute:
// the leaf-list entry with that value, or the list entry matching the key
// predicates.
func (p *parser) findInsertTarget(n *Node, val string, hasVal bool) *Node {
	if !hasVal {
		return nil
	}
	var preds []pathPred
	if n.Schema.Kind == schema.List {
		step, err := parseStep("k" + val)
		if err != nil {
			return nil
		}
		preds = step.Preds
	}
	for m := n.First(); m != nil; m = m.Next {
		if m == n || m.Schema != n.Schema {
			continue
		}
		if n.Schema.Kind == schema.LeafList {
			if m.ValueStr == val {
				return m
			}
			continue
		}
		if matchPreds(m, preds, 0, n.Schema.Module.MainModule()) {
			return m
		}
	}
	return nil
}

// checkEditAttrs validates the insert and value attribute grammar of the
// NETCONF edit operation on ordered-by-user lists and leaf-lists.
func (p *parser) checkEditAttrs(el *xmlquery.Node, sn *schema.Node) error {
	// state: 0 no insert, 1 insert first/last, 2 insert before/after,
	// 3 before/after with one value attribute.
	state := 0
	for _, a := range el.Attr {
		if a.Name.Local != "insert" || p.attrNS(el, a) != nsYang {
			continue
		}
		if sn.Flags&schema.FlagUserOrdered == 0 {
			return newError(KindSchemaBinding, 0, "insert attribute on non-user-ordered %s", sn.Name)
		}
		if state != 0 {
			return newError(KindStructural, 0, "too many insert attributes in %s", el.Data)
		}
		switch a.Value {
		case "first", "last":
			state = 1
		case "before", "after":
			state = 2
		default:
			return newError(KindStructural, 0, "invalid insert value %q in %s", a.Value, el.Data)
		}
	}
	for _, a := range el.Attr {
		if a.Name.Local != "value" || p.attrNS(el, a) != nsYang {
			continue
		}
		if state < 2 {
			return newError(KindStructural, 0, "unexpected value attribute in %s", el.Data)
		}
		state++
	}
	switch {
	case state == 2:
		return newError(KindStructural, 0, "missing value attribute in %s", el.Data)
	case state > 3:
		return newError(KindStructural, 0, "too many value attributes in %s", el.Data)
	}
	return nil
}

// attrNS resolves the namespace of an attribute; unprefixed attributes
// have none.
func (p *parser) attrNS(el *xmlquery.Node, a xmlquery.Attr) string {
	if a.NamespaceURI != "" {
		return a.NamespaceURI
	}
	if a.Name.Space == "" {
		return ""
	}
	return nsByPrefix(el, a.Name.Space)
}

// copyAttrs turns the XML attributes of el into data attributes of n.
// xmlns declarations are not data; attributes without a namespace are
// ignored with a warning, attributes of unknown modules are skipped with a
// warning.
func (p *parser) copyAttrs(n *Node, el *xmlquery.Node) error {
	for _, a := range el.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		ns := p.attrNS(el, a)
		if ns == "" {
			logger.Warn().Str("attribute", a.Name.Local).Str("element", el.Data).
				Msg("ignoring attribute without namespace")
			continue
		}
		mod := p.ctx.ModuleByNamespace(ns)
		if mod == nil {
			logger.Warn().Str("attribute", a.Name.Local).Str("namespace", ns).
				Msg("skipping attribute from unknown schema")
			continue
		}
		n.Attr = append(n.Attr, &Attr{
			Module: mod,
			Name:   p.ctx.Dict.Insert(a.Name.Local),
			Value:  p.ctx.Dict.Insert(a.Value),
		})
	}
	return nil
}

// elementText returns the concatenated character data directly inside el.
func elementText(el *xmlquery.Node) string {
	var b strings.Builder
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// getValue decodes the textual content of el into the leaf node n,
// handling the union type's ordered try-next semantics and the XML-to-JSON
// translation of path-bearing values.
func (p *parser) getValue(n *Node, el *xmlquery.Node) error {
	st := n.Schema.Type
	txt := elementText(el)
	if txt != "" {
		n.ValueStr = p.ctx.Dict.Insert(txt)
	}
	n.ValueType = st.Kind

	if p.opts&Filter != 0 && n.ValueStr == "" {
		// A selection node of a filter carries no value.
		return nil
	}
	resolve := !p.opts.unresolved()

	if st.Kind == schema.Yidentityref || st.Kind == schema.YinstanceIdentifier {
		// Store the canonical JSON form of the path expression.
		conv, err := XML2JSON(p.ctx, txt, el, true)
		if err != nil {
			return err
		}
		if n.ValueStr != "" {
			p.ctx.Dict.Remove(n.ValueStr)
		}
		n.ValueStr = conv
	}

	if st.Kind == schema.Yunion {
		return p.getUnionValue(n, el, st, txt, resolve)
	}
	return applyValue(p.ctx, n, st, n.ValueStr, resolve, p.unres, 0)
}

func (p *parser) getUnionValue(n *Node, el *xmlquery.Node, st *schema.Type, txt string, resolve bool) error {
	for _, sub := range flattenUnion(st) {
		candidate := n.ValueStr
		interned := false
		if sub.Kind == schema.Yidentityref || sub.Kind == schema.YinstanceIdentifier {
			// Probe the translation silently; a failure only rules
			// out this member type.
			conv, err := XML2JSON(p.ctx, txt, el, false)
			if err != nil {
				continue
			}
			candidate = conv
			interned = true
		}
		v, kind, needsRef, err := decodeBase(p.ctx, n.Schema, sub, candidate, resolve, 0)
		if err != nil {
			if interned && candidate != "" {
				p.ctx.Dict.Remove(candidate)
			}
			continue
		}
		if interned {
			if n.ValueStr != "" {
				p.ctx.Dict.Remove(n.ValueStr)
			}
			n.ValueStr = candidate
		}
		n.Value = v
		n.ValueType = kind
		if needsRef {
			n.Unres = true
			if resolve {
				p.unres.add(n, kind, 0)
			}
		}
		return nil
	}
	return newError(KindType, 0, "value %q matches no union member type of %s", txt, n.Schema.Name)
}
