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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openconfig/yangdata/pkg/schema"
)

func TestXML2JSON(t *testing.T) {
	ctx := testContext(t)
	doc := parseDoc(t, `<foo xmlns="urn:m1" xmlns:p="urn:m2" xmlns:q="urn:m1"><bar>x</bar></foo>`)
	foo := doc.SelectElement("foo")
	require.NotNil(t, foo)

	for _, tt := range []struct {
		in   string
		want string
		err  bool
	}{
		{in: "p:id1", want: "m2:id1"},
		{in: "q:leaf", want: "m1:leaf"},
		{in: "/q:l[q:name='a']/q:value", want: "/m1:l[m1:name='a']/m1:value"},
		{in: "noprefix", want: "noprefix"},
		{in: "zz:id1", err: true},
	} {
		got, err := XML2JSON(ctx, tt.in, foo, false)
		if tt.err {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
		ctx.Dict.Remove(got)
	}
}

func TestJSON2XML(t *testing.T) {
	ctx := testContext(t)
	m1 := ctx.ModuleByName("m1")

	expr, decls, err := JSON2XML(m1, "/m2:idbase/m1:thing")
	require.NoError(t, err)
	require.Equal(t, "/m2:idbase/m1:thing", expr)
	require.Equal(t, []PrefixDecl{
		{Prefix: "m2", Namespace: "urn:m2"},
		{Prefix: "m1", Namespace: "urn:m1"},
	}, decls)

	_, _, err = JSON2XML(m1, "zz:thing")
	require.Error(t, err)
}

// Scenario: a union of identityref and string decides by whether the XML
// prefix translates.
func TestUnionIdentityrefString(t *testing.T) {
	ctx := testContext(t)

	tree := mustParse(t, ctx, `<v xmlns="urn:m1" xmlns:p="urn:m2">p:id1</v>`, 0)
	require.Equal(t, schema.Yidentityref, tree.ValueType)
	require.Equal(t, "m2:id1", tree.ValueStr)
	require.NotNil(t, tree.Value.Ident)
	require.Equal(t, "id1", tree.Value.Ident.Name)
	FreeSiblings(tree)

	// Without the namespace in scope, the identityref member is skipped
	// and the string member wins with the raw text.
	tree = mustParse(t, ctx, `<v xmlns="urn:m1">p:id1</v>`, 0)
	require.Equal(t, schema.Ystring, tree.ValueType)
	require.Equal(t, "p:id1", tree.ValueStr)
	FreeSiblings(tree)
}

func TestIdentityrefXMLInput(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, `<idr xmlns="urn:m1" xmlns:p="urn:m2">p:id1</idr>`, 0)
	defer FreeSiblings(tree)
	require.Equal(t, schema.Yidentityref, tree.ValueType)
	// The stored form is canonical JSON regardless of the input prefix.
	require.Equal(t, "m2:id1", tree.ValueStr)

	_, err := ParseXML(ctx, parseDoc(t, `<idr xmlns="urn:m1">p:id1</idr>`), 0)
	require.Error(t, err)
}
