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

// JSON printer following draft-ietf-netmod-yang-json: members are named
// module:name on module transitions and name otherwise, list and leaf-list
// instances aggregate into arrays, attributes appear under @-prefixed
// members, and empty leaves render as [null].

import (
	"fmt"
	"io"
	"strings"

	"github.com/openconfig/yangdata/pkg/schema"
)

// PrintJSON writes the tree rooted at root, and its following siblings, as
// a JSON document.
func PrintJSON(w io.Writer, root *Node) error {
	p := &jsonPrinter{w: w}
	p.printf("{\n")
	p.printNodes(1, root)
	p.printf("}\n")
	return p.err
}

type jsonPrinter struct {
	w   io.Writer
	err error
}

func (p *jsonPrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *jsonPrinter) indent(level int) string {
	return strings.Repeat(" ", level*2)
}

// memberName returns the JSON member name of n: module-qualified when the
// module changes from the parent or at the top level.
func memberName(n *Node) string {
	if n.Parent == nil || !sameModule(n, n.Parent) {
		return n.Schema.Module.MainModule().Name + ":" + n.Schema.Name
	}
	return n.Schema.Name
}

func (p *jsonPrinter) printAttrs(level int, n *Node) {
	for i, a := range n.Attr {
		sep := "\n"
		if i < len(n.Attr)-1 {
			sep = ",\n"
		}
		name := a.Name
		if a.Module.MainModule() != n.Schema.Module.MainModule() {
			name = a.Module.MainModule().Name + ":" + a.Name
		}
		p.printf("%s%s:%s%s", p.indent(level), jsonString(name), jsonString(a.Value), sep)
	}
}

func (p *jsonPrinter) printLeafValue(level int, n *Node) {
	switch n.ValueType {
	case schema.Ybinary, schema.Ystring, schema.Ybits, schema.Yenum,
		schema.Yidentityref, schema.YinstanceIdentifier,
		// A union kind survives only on valueless filter leaves.
		schema.Yunion:
		p.printf("%s", jsonString(n.ValueStr))

	case schema.Ybool, schema.Ydecimal64,
		schema.Yint8, schema.Yint16, schema.Yint32, schema.Yint64,
		schema.Yuint8, schema.Yuint16, schema.Yuint32, schema.Yuint64:
		if n.ValueStr == "" {
			p.printf("null")
		} else {
			p.printf("%s", n.ValueStr)
		}

	case schema.Yleafref:
		if n.Value.Leafref != nil {
			p.printLeafValue(level, n.Value.Leafref)
		} else {
			p.printf("%s", jsonString(n.ValueStr))
		}

	case schema.Yempty:
		p.printf("[null]")

	default:
		p.err = newError(KindInternal, 0, "cannot print value kind %s of %s", n.ValueType, n.Schema.Name)
	}
}

func (p *jsonPrinter) printLeaf(level int, n *Node) {
	p.printf("%s%s: ", p.indent(level), jsonString(memberName(n)))
	p.printLeafValue(level, n)
	if len(n.Attr) > 0 {
		p.printf(",\n%s%s: {\n", p.indent(level), jsonString("@"+memberName(n)))
		p.printAttrs(level+1, n)
		p.printf("%s}", p.indent(level))
	}
}

func (p *jsonPrinter) printContainer(level int, n *Node) {
	p.printf("%s%s: {\n", p.indent(level), jsonString(memberName(n)))
	level++
	if len(n.Attr) > 0 {
		p.printf("%s\"@\": {\n", p.indent(level))
		p.printAttrs(level+1, n)
		p.printf("%s}", p.indent(level))
		if n.Child != nil {
			p.printf(",\n")
		} else {
			p.printf("\n")
		}
	}
	p.printNodes(level, n.Child)
	level--
	p.printf("%s}", p.indent(level))
}

// printLeafList prints all instances of one list or leaf-list schema as a
// single array, starting at the first instance n.
func (p *jsonPrinter) printLeafList(level int, n *Node, isList bool) {
	p.printf("%s%s:", p.indent(level), jsonString(memberName(n)))

	// An empty list selection, e.g. in a filter, prints as null.
	if isList && n.Child == nil && nextInstance(n, n.Schema) == nil {
		p.printf(" null")
		return
	}

	hasAttrs := false
	p.printf(" [\n")
	if !isList {
		level++
	}
	for inst := n; inst != nil; inst = nextInstance(inst, n.Schema) {
		if isList {
			level++
			p.printf("%s{\n", p.indent(level))
			level++
			if len(inst.Attr) > 0 {
				p.printf("%s\"@\": {\n", p.indent(level))
				p.printAttrs(level+1, inst)
				p.printf("%s}", p.indent(level))
				if inst.Child != nil {
					p.printf(",\n")
				} else {
					p.printf("\n")
				}
			}
			p.printNodes(level, inst.Child)
			level--
			p.printf("%s}", p.indent(level))
			level--
		} else {
			p.printf("%s", p.indent(level))
			p.printLeafValue(level, inst)
			if len(inst.Attr) > 0 {
				hasAttrs = true
			}
		}
		if nextInstance(inst, n.Schema) != nil {
			p.printf(",\n")
		}
	}
	if !isList {
		level--
	}
	p.printf("\n%s]", p.indent(level))

	// Leaf-list attributes go into a parallel array of attribute objects
	// or nulls.
	if !isList && hasAttrs {
		p.printf(",\n%s%s: [\n", p.indent(level), jsonString("@"+memberName(n)))
		level++
		for inst := n; inst != nil; inst = nextInstance(inst, n.Schema) {
			if len(inst.Attr) > 0 {
				p.printf("%s{ ", p.indent(level))
				p.printAttrs(0, inst)
				p.printf("%s}", p.indent(level))
			} else {
				p.printf("%snull", p.indent(level))
			}
			if nextInstance(inst, n.Schema) != nil {
				p.printf(",\n")
			}
		}
		level--
		p.printf("\n%s]", p.indent(level))
	}
}

func (p *jsonPrinter) printAnyxml(level int, n *Node) {
	p.printf("%s%s: [null]", p.indent(level), jsonString(memberName(n)))
	if len(n.Attr) > 0 {
		p.printf(",\n%s%s: {\n", p.indent(level), jsonString("@"+memberName(n)))
		p.printAttrs(level+1, n)
		p.printf("%s}", p.indent(level))
	}
}

// nextInstance returns the next following sibling with the same schema.
func nextInstance(n *Node, s *schema.Node) *Node {
	for m := n.Next; m != nil; m = m.Next {
		if m.Schema == s {
			return m
		}
	}
	return nil
}

// prevInstance reports whether a preceding sibling shares n's schema,
// which means n's array was already printed.
func prevInstance(n *Node) bool {
	for m := n.First(); m != nil && m != n; m = m.Next {
		if m.Schema == n.Schema {
			return true
		}
	}
	return false
}

func (p *jsonPrinter) printNodes(level int, root *Node) {
	first := true
	for n := root; n != nil; n = n.Next {
		switch n.Schema.Kind {
		case schema.Container, schema.RPC, schema.Notification:
			p.comma(&first)
			p.printContainer(level, n)
		case schema.Leaf:
			p.comma(&first)
			p.printLeaf(level, n)
		case schema.List, schema.LeafList:
			if prevInstance(n) {
				continue
			}
			p.comma(&first)
			p.printLeafList(level, n, n.Schema.Kind == schema.List)
		case schema.AnyXML:
			p.comma(&first)
			p.printAnyxml(level, n)
		default:
			p.err = newError(KindInternal, 0, "cannot print node kind %s", n.Schema.Kind)
			return
		}
	}
	p.printf("\n")
}

func (p *jsonPrinter) comma(first *bool) {
	if !*first {
		p.printf(",\n")
	}
	*first = false
}

// jsonString quotes s as a JSON string.
func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
