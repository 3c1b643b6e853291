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

// XML printer.  The default namespace is declared only where the module
// changes from the parent, attribute namespaces are declared with prefixes
// on the top-level element of each tree, and path-bearing values are
// translated back to XML prefix form with their declarations on the leaf's
// start tag.

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/openconfig/yangdata/pkg/schema"
)

// PrintXML writes the tree rooted at root, and its following siblings, as
// XML.  With formatted true the output is indented by two spaces per
// level, otherwise it is a single line.
func PrintXML(w io.Writer, root *Node, formatted bool) error {
	p := &xmlPrinter{w: w, prefixes: map[*schema.Module]string{}, used: map[string]bool{}}
	for n := root; n != nil; n = n.Next {
		level := 0
		if formatted {
			level = 1
		}
		p.printNode(level, n, true)
	}
	return p.err
}

type xmlPrinter struct {
	w   io.Writer
	err error

	// Attribute modules are identified by module rather than by their
	// declared prefix; colliding prefixes are uniquified.
	prefixes map[*schema.Module]string
	used     map[string]bool
}

func (p *xmlPrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *xmlPrinter) indent(level int) string {
	if level > 0 {
		return strings.Repeat(" ", level*2-2)
	}
	return ""
}

func (p *xmlPrinter) nl(level int) string {
	if level > 0 {
		return "\n"
	}
	return ""
}

// prefixFor returns a stable XML prefix for a module, assigning one on
// first use.
func (p *xmlPrinter) prefixFor(m *schema.Module) string {
	m = m.MainModule()
	if pfx, ok := p.prefixes[m]; ok {
		return pfx
	}
	pfx := m.Prefix
	if pfx == "" {
		pfx = m.Name
	}
	base := pfx
	for n := 2; p.used[pfx]; n++ {
		pfx = base + strconv.Itoa(n)
	}
	p.used[pfx] = true
	p.prefixes[m] = pfx
	return pfx
}

// sameModule reports whether two data nodes belong to the same module,
// resolving submodules to their belongs-to module.
func sameModule(a, b *Node) bool {
	return a.Schema.Module.MainModule() == b.Schema.Module.MainModule()
}

// startTag emits the opening of a node's tag with the default namespace
// declaration when the module changes from the parent.
func (p *xmlPrinter) startTag(level int, n *Node) {
	if n.Parent == nil || !sameModule(n, n.Parent) {
		ns := n.Schema.Module.MainModule().Namespace
		p.printf("%s<%s xmlns=\"%s\"", p.indent(level), n.Schema.Name, ns)
	} else {
		p.printf("%s<%s", p.indent(level), n.Schema.Name)
	}
}

// printNSDecls declares a prefix for every module referenced by the
// attributes in the tree below n.  Attributes in leaf and leaf-list
// subtrees belong to the leaves themselves and are excluded from the
// walk's descent.
func (p *xmlPrinter) printNSDecls(n *Node) {
	var mods []*schema.Module
	seen := map[*schema.Module]bool{}
	add := func(nd *Node) {
		for _, a := range nd.Attr {
			m := a.Module.MainModule()
			if !seen[m] {
				seen[m] = true
				mods = append(mods, m)
			}
		}
	}
	add(n)
	if !n.Schema.IsLeafy() {
		var walk func(*Node)
		walk = func(nd *Node) {
			for c := nd.Child; c != nil; c = c.Next {
				add(c)
				walk(c)
			}
		}
		walk(n)
	}
	for _, m := range mods {
		p.printf(" xmlns:%s=\"%s\"", p.prefixFor(m), m.Namespace)
	}
}

// printAttrs emits the node's attributes.  The filter element of the
// NETCONF modules gets its get-filter-element-attributes treatment: type
// is printed bare and select is translated back to XML prefix form.
func (p *xmlPrinter) printAttrs(n *Node) {
	rpcFilter := n.Schema.Name == "filter" &&
		(n.Schema.Module.MainModule().Name == "ietf-netconf" || n.Schema.Module.MainModule().Name == "notifications")
	for _, a := range n.Attr {
		switch {
		case rpcFilter && a.Name == "type":
			p.printf(" %s=\"%s\"", a.Name, xmlEscape(a.Value, true))
		case rpcFilter && a.Name == "select":
			expr, decls, err := JSON2XML(n.Schema.Module, a.Value)
			if err != nil {
				p.err = err
				return
			}
			for _, d := range decls {
				p.printf(" xmlns:%s=\"%s\"", d.Prefix, d.Namespace)
			}
			p.printf(" %s=\"%s\"", a.Name, xmlEscape(expr, true))
		default:
			p.printf(" %s:%s=\"%s\"", p.prefixFor(a.Module), a.Name, xmlEscape(a.Value, true))
		}
	}
}

func (p *xmlPrinter) printNode(level int, n *Node, toplevel bool) {
	switch n.Schema.Kind {
	case schema.Container, schema.List, schema.RPC, schema.Notification:
		p.printInner(level, n, toplevel)
	case schema.Leaf, schema.LeafList:
		p.printLeaf(level, n, toplevel)
	case schema.AnyXML:
		p.printAnyxml(level, n, toplevel)
	default:
		p.err = newError(KindInternal, 0, "cannot print node kind %s", n.Schema.Kind)
	}
}

func (p *xmlPrinter) printInner(level int, n *Node, toplevel bool) {
	p.startTag(level, n)
	if toplevel {
		p.printNSDecls(n)
	}
	p.printAttrs(n)
	if n.Child == nil {
		p.printf("/>%s", p.nl(level))
		return
	}
	p.printf(">%s", p.nl(level))
	next := 0
	if level > 0 {
		next = level + 1
	}
	for c := n.Child; c != nil; c = c.Next {
		p.printNode(next, c, false)
	}
	p.printf("%s</%s>%s", p.indent(level), n.Schema.Name, p.nl(level))
}

func (p *xmlPrinter) printLeaf(level int, n *Node, toplevel bool) {
	p.startTag(level, n)
	if toplevel {
		p.printNSDecls(n)
	}
	p.printAttrs(n)

	switch n.ValueType {
	case schema.Ybinary, schema.Ystring, schema.Ybits, schema.Yenum, schema.Ybool,
		schema.Ydecimal64, schema.Yint8, schema.Yint16, schema.Yint32, schema.Yint64,
		schema.Yuint8, schema.Yuint16, schema.Yuint32, schema.Yuint64,
		// A union kind survives only on valueless filter leaves.
		schema.Yunion:
		if n.ValueStr == "" {
			p.printf("/>")
		} else {
			p.printf(">%s</%s>", xmlEscape(n.ValueStr, false), n.Schema.Name)
		}

	case schema.Yidentityref, schema.YinstanceIdentifier:
		expr, decls, err := JSON2XML(n.Schema.Module, n.ValueStr)
		if err != nil {
			p.err = err
			return
		}
		for _, d := range decls {
			p.printf(" xmlns:%s=\"%s\"", d.Prefix, d.Namespace)
		}
		if expr != "" {
			p.printf(">%s</%s>", xmlEscape(expr, false), n.Schema.Name)
		} else {
			p.printf("/>")
		}

	case schema.Yleafref:
		value := n.ValueStr
		if n.Value.Leafref != nil {
			value = n.Value.Leafref.ValueStr
		}
		if value == "" {
			p.printf("/>")
		} else {
			p.printf(">%s</%s>", xmlEscape(value, false), n.Schema.Name)
		}

	case schema.Yempty:
		p.printf("/>")

	default:
		p.err = newError(KindInternal, 0, "cannot print value kind %s of %s", n.ValueType, n.Schema.Name)
	}
	p.printf("%s", p.nl(level))
}

func (p *xmlPrinter) printAnyxml(level int, n *Node, toplevel bool) {
	p.startTag(level, n)
	if toplevel {
		p.printNSDecls(n)
	}
	p.printAttrs(n)
	if len(n.XML) == 0 {
		p.printf("/>%s", p.nl(level))
		return
	}
	p.printf(">")
	for _, x := range n.XML {
		p.printf("%s", x.OutputXML(true))
	}
	p.printf("</%s>%s", n.Schema.Name, p.nl(level))
}

// xmlEscape escapes text content; attr additionally escapes the double
// quote.
func xmlEscape(s string, attr bool) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			if attr {
				b.WriteString("&quot;")
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
