// Copyright 2016 Google Inc.
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

// This file implements data structures and functions that relate to the
// identity type.

import "strings"

// An Identity is a single identity defined by a module.  Derived lists all
// identities directly based on this one; derivation is transitive.
type Identity struct {
	Name    string
	Module  *Module
	Base    *Identity
	Derived []*Identity
}

// PrefixedName returns the JSON-form name of i: module-name:identity-name.
func (i *Identity) PrefixedName() string {
	return i.Module.MainModule().Name + ":" + i.Name
}

// DerivedFrom reports whether i is transitively derived from base.  An
// identity is not derived from itself.
func (i *Identity) DerivedFrom(base *Identity) bool {
	for p := i.Base; p != nil; p = p.Base {
		if p == base {
			return true
		}
	}
	return false
}

// AddIdentity adds id to module m and links it under its base.  The loader
// calls this for every identity statement after all modules exist.
func (m *Module) AddIdentity(id *Identity) {
	id.Module = m
	m.Identities = append(m.Identities, id)
	if id.Base != nil {
		id.Base.Derived = append(id.Base.Derived, id)
	}
}

// FindIdentity resolves a JSON-form identity name (module-name:name, or a
// bare name looked up in def) across the context.  It returns nil if the
// identity does not exist.
func (c *Context) FindIdentity(def *Module, name string) *Identity {
	mod := def
	if i := strings.IndexByte(name, ':'); i >= 0 {
		mod = c.ModuleByName(name[:i])
		name = name[i+1:]
	}
	if mod == nil {
		return nil
	}
	for _, m := range c.Modules {
		if m.MainModule() != mod.MainModule() {
			continue
		}
		for _, id := range m.Identities {
			if id.Name == name {
				return id
			}
		}
	}
	return nil
}
