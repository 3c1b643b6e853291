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

// This file decodes textual leaf values against their schema types.  The
// text handed in here is always in canonical JSON form: identityref and
// instance-identifier values use module-name prefixes.  Translation from
// XML prefixes happens before decoding (see transform.go and the union
// handling in parser_xml.go).

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/openconfig/yangdata/pkg/schema"
)

// decodeBase decodes txt against t and returns the decoded value, the
// runtime-resolved kind (differs from t.Kind for unions), and whether the
// value needs the deferred reference pass.  Nothing is mutated; the caller
// commits the result.
func decodeBase(ctx *schema.Context, leaf *schema.Node, t *schema.Type, txt string, resolve bool, line int) (Value, schema.TypeKind, bool, error) {
	var v Value
	switch t.Kind {
	case schema.Ybool:
		switch txt {
		case "true":
			v.Bool = true
		case "false":
		default:
			return v, t.Kind, false, newError(KindType, line, "invalid boolean value %q in %s", txt, leaf.Name)
		}

	case schema.Yint8, schema.Yint16, schema.Yint32, schema.Yint64:
		n, err := schema.ParseInt(txt)
		if err != nil {
			return v, t.Kind, false, newError(KindType, line, "invalid %s value %q in %s", t.Kind, txt, leaf.Name)
		}
		if !t.Kind.BuiltinRange().ContainsValue(n) || !t.Range.ContainsValue(n) {
			return v, t.Kind, false, newError(KindType, line, "value %q out of range of %s in %s", txt, t.Kind, leaf.Name)
		}
		v.Int, _ = n.Int()

	case schema.Yuint8, schema.Yuint16, schema.Yuint32, schema.Yuint64:
		n, err := schema.ParseInt(txt)
		if err != nil || n.Negative && n.Value != 0 {
			return v, t.Kind, false, newError(KindType, line, "invalid %s value %q in %s", t.Kind, txt, leaf.Name)
		}
		if !t.Kind.BuiltinRange().ContainsValue(n) || !t.Range.ContainsValue(n) {
			return v, t.Kind, false, newError(KindType, line, "value %q out of range of %s in %s", txt, t.Kind, leaf.Name)
		}
		v.Uint = n.Value

	case schema.Ydecimal64:
		n, err := schema.ParseDecimal(txt, t.FractionDigits)
		if err != nil {
			return v, t.Kind, false, newError(KindType, line, "invalid decimal64 value %q in %s", txt, leaf.Name)
		}
		if !t.Range.ContainsValue(n) {
			return v, t.Kind, false, newError(KindType, line, "value %q out of range in %s", txt, leaf.Name)
		}
		v.Dec64, err = n.Scaled()
		if err != nil {
			return v, t.Kind, false, newError(KindType, line, "invalid decimal64 value %q in %s", txt, leaf.Name)
		}

	case schema.Ystring:
		if !t.Length.ContainsValue(schema.FromUint(uint64(len(txt)))) {
			return v, t.Kind, false, newError(KindType, line, "string length %d out of bounds in %s", len(txt), leaf.Name)
		}
		for _, pat := range t.Patterns {
			ok, err := regexp.MatchString("^(?:"+pat+")$", txt)
			if err != nil || !ok {
				return v, t.Kind, false, newError(KindType, line, "value %q does not match pattern %q in %s", txt, pat, leaf.Name)
			}
		}
		v.String = txt

	case schema.Ybinary:
		stripped := stripSpace(txt)
		raw, err := base64.StdEncoding.DecodeString(stripped)
		if err != nil {
			return v, t.Kind, false, newError(KindType, line, "invalid base64 value in %s", leaf.Name)
		}
		if !t.Length.ContainsValue(schema.FromUint(uint64(len(raw)))) {
			return v, t.Kind, false, newError(KindType, line, "binary length %d out of bounds in %s", len(raw), leaf.Name)
		}
		v.String = txt

	case schema.Yenum:
		for _, e := range t.Enum {
			if e.Name == txt {
				v.Enum = e
				break
			}
		}
		if v.Enum == nil {
			return v, t.Kind, false, newError(KindType, line, "invalid enumeration value %q in %s", txt, leaf.Name)
		}

	case schema.Ybits:
		v.Bits = make([]*schema.BitValue, len(t.Bit))
		for _, name := range strings.Fields(txt) {
			x := -1
			for i, b := range t.Bit {
				if b.Name == name {
					x = i
					break
				}
			}
			if x < 0 {
				return v, t.Kind, false, newError(KindType, line, "unknown bit %q in %s", name, leaf.Name)
			}
			if v.Bits[x] != nil {
				return v, t.Kind, false, newError(KindType, line, "duplicated bit %q in %s", name, leaf.Name)
			}
			v.Bits[x] = t.Bit[x]
		}

	case schema.Yempty:
		if txt != "" {
			return v, t.Kind, false, newError(KindType, line, "non-empty value %q in empty leaf %s", txt, leaf.Name)
		}

	case schema.Yidentityref:
		if t.IdentityBase == nil {
			return v, t.Kind, false, newError(KindInternal, line, "identityref %s has no base", leaf.Name)
		}
		id := ctx.FindIdentity(leaf.Module.MainModule(), txt)
		if id == nil {
			return v, t.Kind, false, newError(KindType, line, "unknown identity %q in %s", txt, leaf.Name)
		}
		if !id.DerivedFrom(t.IdentityBase) {
			return v, t.Kind, false, newError(KindType, line,
				"identity %q is not derived from %q in %s", txt, t.IdentityBase.Name, leaf.Name)
		}
		v.Ident = id

	case schema.YinstanceIdentifier:
		if _, abs, err := parsePath(txt); err != nil || !abs {
			return v, t.Kind, false, newError(KindType, line, "invalid instance-identifier %q in %s", txt, leaf.Name)
		}
		return v, t.Kind, true, nil

	case schema.Yleafref:
		if !resolve {
			// Filter and edit documents keep the syntactic value.
			v.String = txt
			return v, t.Kind, true, nil
		}
		target := t.RefTarget()
		if target == nil {
			return v, t.Kind, false, newError(KindInternal, line, "unresolved leafref target of %s", leaf.Name)
		}
		tv, _, _, err := decodeBase(ctx, target, target.Type, txt, resolve, line)
		if err != nil {
			return v, t.Kind, false, newError(KindType, line, "value %q fails the leafref target type of %s", txt, leaf.Name)
		}
		v = tv
		return v, t.Kind, true, nil

	case schema.Yunion:
		for _, sub := range flattenUnion(t) {
			sv, kind, ref, err := decodeBase(ctx, leaf, sub, txt, resolve, line)
			if err == nil {
				return sv, kind, ref, nil
			}
		}
		return v, t.Kind, false, newError(KindType, line, "value %q matches no union member type of %s", txt, leaf.Name)

	default:
		return v, t.Kind, false, newError(KindInternal, line, "unknown type kind %d of %s", t.Kind, leaf.Name)
	}
	return v, t.Kind, false, nil
}

// flattenUnion returns the member types of a union in declaration order,
// expanding nested unions in place.
func flattenUnion(t *schema.Type) []*schema.Type {
	var out []*schema.Type
	for _, sub := range t.Types {
		if sub.Kind == schema.Yunion {
			out = append(out, flattenUnion(sub)...)
			continue
		}
		out = append(out, sub)
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// applyValue decodes txt for leaf and commits the result: typed value,
// runtime kind, unresolved flag, and a deferral record when the reference
// pass must run.  ValueStr is not touched here.
func applyValue(ctx *schema.Context, leaf *Node, t *schema.Type, txt string, resolve bool, unres *unresData, line int) error {
	v, kind, needsRef, err := decodeBase(ctx, leaf.Schema, t, txt, resolve, line)
	if err != nil {
		return err
	}
	leaf.Value = v
	leaf.ValueType = kind
	if needsRef {
		leaf.Unres = true
		if resolve && unres != nil {
			unres.add(leaf, kind, line)
		}
	}
	return nil
}
