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

// This file translates prefixed expressions between the two namespace
// conventions: XML form, where prefixes resolve through in-scope xmlns
// declarations, and JSON form, where prefixes are module names.  Values of
// identityref and instance-identifier leaves are stored in JSON form
// regardless of the input encoding, which keeps reference resolution
// independent of the encoding.

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"

	"github.com/openconfig/yangdata/pkg/schema"
)

// A PrefixDecl is an xmlns declaration the caller of JSON2XML must emit on
// the element containing the translated expression.
type PrefixDecl struct {
	Prefix    string
	Namespace string
}

// nsByPrefix resolves an XML prefix through the xmlns declarations in
// scope at el.  The empty prefix resolves to the default namespace.
func nsByPrefix(el *xmlquery.Node, prefix string) string {
	for n := el; n != nil; n = n.Parent {
		for _, a := range n.Attr {
			switch {
			case prefix != "" && a.Name.Space == "xmlns" && a.Name.Local == prefix:
				return a.Value
			case prefix == "" && a.Name.Space == "" && a.Name.Local == "xmlns":
				return a.Value
			}
		}
	}
	// The element's own resolved namespace covers documents whose xmlns
	// declarations were consumed by the tokenizer.
	if el != nil && el.Prefix == prefix {
		return el.NamespaceURI
	}
	return ""
}

// isNameStart reports whether b can start an XML name token.
func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || b == '-' || b == '.' || (b >= '0' && b <= '9')
}

// XML2JSON rewrites every prefix:name token of expr from XML prefixes to
// module names, using the xmlns declarations in scope at el.  The result
// is interned in the context dictionary; the caller owns one reference.
// With log false, failures are silent (used when probing union member
// types).
func XML2JSON(ctx *schema.Context, expr string, el *xmlquery.Node, log bool) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(expr) {
		if !isNameStart(expr[i]) {
			out.WriteByte(expr[i])
			i++
			continue
		}
		start := i
		for i < len(expr) && isNameChar(expr[i]) {
			i++
		}
		tok := expr[start:i]
		if i >= len(expr) || expr[i] != ':' || i+1 >= len(expr) || !isNameStart(expr[i+1]) {
			// Not a prefixed name, copy verbatim.
			out.WriteString(tok)
			continue
		}
		i++ // consume ':'
		ns := nsByPrefix(el, tok)
		if ns == "" {
			if log {
				logger.Warn().Str("prefix", tok).Msg("undeclared prefix in expression")
			}
			return "", newError(KindType, 0, "undeclared prefix %q in %q", tok, expr)
		}
		mod := ctx.ModuleByNamespace(ns)
		if mod == nil {
			if log {
				logger.Warn().Str("namespace", ns).Msg("no module for namespace in expression")
			}
			return "", newError(KindType, 0, "no module with namespace %q in %q", ns, expr)
		}
		out.WriteString(mod.Name)
		out.WriteByte(':')
	}
	if out.Len() == 0 {
		return "", nil
	}
	return ctx.Dict.Insert(out.String()), nil
}

// JSON2XML rewrites every prefix:name token of expr from module names to
// XML prefixes of the modules, returning the rewritten expression and the
// xmlns declarations required to interpret it.  Prefixes are uniquified
// when two distinct modules would otherwise share one.
func JSON2XML(mod *schema.Module, expr string) (string, []PrefixDecl, error) {
	ctx := mod.Context()
	var out strings.Builder
	var decls []PrefixDecl
	prefixes := map[*schema.Module]string{}
	used := map[string]bool{}

	assign := func(m *schema.Module) string {
		m = m.MainModule()
		if p, ok := prefixes[m]; ok {
			return p
		}
		p := m.Prefix
		if p == "" {
			p = m.Name
		}
		base := p
		for n := 2; used[p]; n++ {
			p = base + strconv.Itoa(n)
		}
		used[p] = true
		prefixes[m] = p
		decls = append(decls, PrefixDecl{Prefix: p, Namespace: m.Namespace})
		return p
	}

	i := 0
	for i < len(expr) {
		if !isNameStart(expr[i]) {
			out.WriteByte(expr[i])
			i++
			continue
		}
		start := i
		for i < len(expr) && isNameChar(expr[i]) {
			i++
		}
		tok := expr[start:i]
		if i >= len(expr) || expr[i] != ':' || i+1 >= len(expr) || !isNameStart(expr[i+1]) {
			out.WriteString(tok)
			continue
		}
		i++ // consume ':'
		m := ctx.ModuleByName(tok)
		if m == nil {
			return "", nil, errors.Errorf("unknown module %q in %q", tok, expr)
		}
		out.WriteString(assign(m))
		out.WriteByte(':')
	}
	return out.String(), decls, nil
}
