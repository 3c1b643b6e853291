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

package schema

// This file loads a schema context from a YAML schema description.  The
// description is the output format of an external YANG compiler; parsing
// .yang module text is out of scope for this library.

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlDoc struct {
	Modules []*yamlModule `yaml:"modules"`
}

type yamlModule struct {
	Name       string          `yaml:"name"`
	Namespace  string          `yaml:"namespace"`
	Prefix     string          `yaml:"prefix"`
	BelongsTo  string          `yaml:"belongs-to"`
	Imports    []yamlImport    `yaml:"imports"`
	Identities []*yamlIdentity `yaml:"identities"`
	Data       []*yamlNode     `yaml:"data"`
}

type yamlImport struct {
	Module string `yaml:"module"`
	Prefix string `yaml:"prefix"`
}

type yamlIdentity struct {
	Name string `yaml:"name"`
	Base string `yaml:"base"`
}

type yamlNode struct {
	Name          string      `yaml:"name"`
	Kind          string      `yaml:"kind"`
	Config        *bool       `yaml:"config"`
	Mandatory     bool        `yaml:"mandatory"`
	OrderedByUser bool        `yaml:"ordered-by-user"`
	Keys          []string    `yaml:"keys"`
	MinElements   uint64      `yaml:"min-elements"`
	MaxElements   uint64      `yaml:"max-elements"`
	When          string      `yaml:"when"`
	Type          *yamlType   `yaml:"type"`
	Children      []*yamlNode `yaml:"children"`
}

type yamlType struct {
	Name            string      `yaml:"name"`
	Base            string      `yaml:"base"`
	Range           string      `yaml:"range"`
	Length          string      `yaml:"length"`
	FractionDigits  uint8       `yaml:"fraction-digits"`
	Patterns        []string    `yaml:"patterns"`
	Enums           []yamlEnum  `yaml:"enums"`
	Bits            []yamlBit   `yaml:"bits"`
	IdentityBase    string      `yaml:"identity-base"`
	Path            string      `yaml:"path"`
	RequireInstance *bool       `yaml:"require-instance"`
	Types           []*yamlType `yaml:"types"`
}

type yamlEnum struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

type yamlBit struct {
	Name     string `yaml:"name"`
	Position uint32 `yaml:"position"`
}

var yamlKinds = map[string]NodeKind{
	"container":    Container,
	"list":         List,
	"leaf":         Leaf,
	"leaf-list":    LeafList,
	"anyxml":       AnyXML,
	"choice":       Choice,
	"case":         Case,
	"uses":         Uses,
	"grouping":     Grouping,
	"input":        Input,
	"output":       Output,
	"rpc":          RPC,
	"notification": Notification,
}

// LoadYAML reads a schema description document and adds the modules it
// defines to the context.  Identity bases and imports are resolved across
// all modules of the document before any is added; leafref targets are
// resolved over the whole context after the modules are added.
func LoadYAML(c *Context, r io.Reader) error {
	var doc yamlDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrap(err, "decoding schema description")
	}

	byName := map[string]*Module{}
	mods := make([]*Module, 0, len(doc.Modules))
	for _, ym := range doc.Modules {
		if ym.Name == "" || ym.Namespace == "" {
			return errors.Errorf("module %q: name and namespace are required", ym.Name)
		}
		m := &Module{Name: ym.Name, Namespace: ym.Namespace, Prefix: ym.Prefix}
		byName[m.Name] = m
		mods = append(mods, m)
	}

	// Belongs-to, imports and identities need every module present first.
	for x, ym := range doc.Modules {
		m := mods[x]
		if ym.BelongsTo != "" {
			main := byName[ym.BelongsTo]
			if main == nil {
				return errors.Errorf("submodule %s: unknown module %q", m.Name, ym.BelongsTo)
			}
			m.BelongsTo = main
		}
		for _, yi := range ym.Imports {
			im := byName[yi.Module]
			if im == nil {
				return errors.Errorf("module %s: unknown import %q", m.Name, yi.Module)
			}
			m.Imports = append(m.Imports, &Import{Module: im, Prefix: yi.Prefix})
		}
		for _, yi := range ym.Identities {
			m.AddIdentity(&Identity{Name: yi.Name, Module: m})
		}
	}
	for x, ym := range doc.Modules {
		m := mods[x]
		for i, yi := range ym.Identities {
			if yi.Base == "" {
				continue
			}
			base := findYAMLIdentity(byName, m, yi.Base)
			if base == nil {
				return errors.Errorf("identity %s:%s: unknown base %q", m.Name, yi.Name, yi.Base)
			}
			id := m.Identities[i]
			id.Base = base
			base.Derived = append(base.Derived, id)
		}
	}

	for x, ym := range doc.Modules {
		m := mods[x]
		var last *Node
		for _, yn := range ym.Data {
			n, err := buildYAMLNode(byName, m, yn)
			if err != nil {
				return err
			}
			if last == nil {
				m.Data = n
			} else {
				last.Next = n
				n.Prev = last
			}
			last = n
		}
	}

	for _, m := range mods {
		c.AddModule(m)
	}
	return c.ResolveLeafrefs()
}

func findYAMLIdentity(byName map[string]*Module, def *Module, name string) *Identity {
	mod := def
	local := name
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			mod = byName[name[:i]]
			local = name[i+1:]
			break
		}
	}
	if mod == nil {
		return nil
	}
	for _, id := range mod.Identities {
		if id.Name == local {
			return id
		}
	}
	return nil
}

func buildYAMLNode(byName map[string]*Module, m *Module, yn *yamlNode) (*Node, error) {
	kind, ok := yamlKinds[yn.Kind]
	if !ok {
		return nil, errors.Errorf("node %s: unknown kind %q", yn.Name, yn.Kind)
	}
	n := &Node{Name: yn.Name, Kind: kind, Module: m, When: yn.When}
	if yn.Config == nil || *yn.Config {
		n.Flags |= FlagConfig
	}
	if yn.Mandatory {
		n.Flags |= FlagMandatory
	}
	if yn.OrderedByUser {
		n.Flags |= FlagUserOrdered
	}
	switch kind {
	case List, LeafList:
		n.ListAttr = &ListAttr{
			Keys:        yn.Keys,
			MinElements: yn.MinElements,
			MaxElements: yn.MaxElements,
		}
	default:
		if len(yn.Keys) > 0 {
			return nil, errors.Errorf("node %s: keys on a %s", yn.Name, yn.Kind)
		}
	}
	if yn.Type != nil {
		t, err := buildYAMLType(byName, m, yn.Name, yn.Type)
		if err != nil {
			return nil, err
		}
		n.Type = t
	} else if n.IsLeafy() {
		return nil, errors.Errorf("node %s: %s requires a type", yn.Name, yn.Kind)
	}
	for _, yc := range yn.Children {
		c, err := buildYAMLNode(byName, m, yc)
		if err != nil {
			return nil, err
		}
		n.AppendChild(c)
	}
	if n.Kind == List {
		for _, key := range n.ListAttr.Keys {
			k := searchChild(n.Child, m.MainModule(), key)
			if k == nil || k.Kind != Leaf {
				return nil, errors.Errorf("list %s: key %q is not a child leaf", yn.Name, key)
			}
		}
	}
	return n, nil
}

func buildYAMLType(byName map[string]*Module, m *Module, owner string, yt *yamlType) (*Type, error) {
	base := yt.Base
	if base == "" {
		base = yt.Name
	}
	kind, ok := TypeKindFromName[base]
	if !ok {
		return nil, errors.Errorf("node %s: unknown type base %q", owner, base)
	}
	t := &Type{
		Name:           yt.Name,
		Kind:           kind,
		FractionDigits: yt.FractionDigits,
		Patterns:       yt.Patterns,
		Path:           yt.Path,
		// require-instance defaults to true
		RequireInstance: yt.RequireInstance == nil || *yt.RequireInstance,
	}
	if t.Name == "" {
		t.Name = base
	}
	var err error
	if yt.Range != "" {
		if kind == Ydecimal64 {
			t.Range, err = ParseRangesDecimal(yt.Range, t.FractionDigits)
		} else {
			t.Range, err = ParseRangesInt(yt.Range)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "node %s: range", owner)
		}
	}
	if yt.Length != "" {
		if t.Length, err = ParseRangesInt(yt.Length); err != nil {
			return nil, errors.Wrapf(err, "node %s: length", owner)
		}
	}
	for _, ye := range yt.Enums {
		t.Enum = append(t.Enum, &EnumValue{Name: ye.Name, Value: ye.Value})
	}
	for _, yb := range yt.Bits {
		t.Bit = append(t.Bit, &BitValue{Name: yb.Name, Position: yb.Position})
	}
	if yt.IdentityBase != "" {
		id := findYAMLIdentity(byName, m, yt.IdentityBase)
		if id == nil {
			return nil, errors.Errorf("node %s: unknown identity base %q", owner, yt.IdentityBase)
		}
		t.IdentityBase = id
	}
	if kind == Ydecimal64 && (t.FractionDigits < 1 || t.FractionDigits > MaxFractionDigits) {
		return nil, errors.Errorf("node %s: decimal64 requires fraction-digits in [1, 18]", owner)
	}
	for _, ys := range yt.Types {
		sub, err := buildYAMLType(byName, m, owner, ys)
		if err != nil {
			return nil, err
		}
		t.Types = append(t.Types, sub)
	}
	if kind == Yunion && len(t.Types) == 0 {
		return nil, errors.Errorf("node %s: union requires member types", owner)
	}
	return t, nil
}
