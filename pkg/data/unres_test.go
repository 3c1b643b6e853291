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

const listDoc = `<l xmlns="urn:m1"><name>a</name><value>1</value></l>` +
	`<l xmlns="urn:m1"><name>b</name><value>2</value></l>`

func TestLeafrefResolution(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, listDoc+`<ref xmlns="urn:m1">a</ref>`, 0)
	defer FreeSiblings(tree)

	ref := findNode(tree, "ref")
	require.NotNil(t, ref)
	require.False(t, ref.Unres)
	require.NotNil(t, ref.Value.Leafref)
	require.Equal(t, "name", ref.Value.Leafref.Schema.Name)
	require.Equal(t, "a", ref.Value.Leafref.ValueStr)
}

func TestLeafrefMissingTarget(t *testing.T) {
	ctx := testContext(t)
	tree, err := ParseXML(ctx, parseDoc(t, listDoc+`<ref xmlns="urn:m1">zzz</ref>`), 0)
	require.Error(t, err)
	require.Nil(t, tree)
	require.Equal(t, KindReference, KindOf(err))
}

func TestLeafrefOptionalTarget(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, listDoc+`<optref xmlns="urn:m1">zzz</optref>`, 0)
	defer FreeSiblings(tree)

	ref := findNode(tree, "optref")
	require.NotNil(t, ref)
	require.False(t, ref.Unres)
	require.Nil(t, ref.Value.Leafref)
}

func TestLeafrefUnresolvedInGetMode(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, `<ref xmlns="urn:m1">zzz</ref>`, Get)
	defer FreeSiblings(tree)

	require.True(t, tree.Unres)
	require.Equal(t, schema.Yleafref, tree.ValueType)
	require.Equal(t, "zzz", tree.ValueStr)
}

func TestInstanceIdentifierResolution(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx,
		listDoc+`<inst xmlns="urn:m1" xmlns:p="urn:m1">/p:l[p:name='b']/p:value</inst>`, 0)
	defer FreeSiblings(tree)

	inst := findNode(tree, "inst")
	require.NotNil(t, inst)
	require.Equal(t, "/m1:l[m1:name='b']/m1:value", inst.ValueStr)
	require.False(t, inst.Unres)
	require.NotNil(t, inst.Value.Instance)
	require.Equal(t, "value", inst.Value.Instance.Schema.Name)
	require.Equal(t, "2", inst.Value.Instance.ValueStr)
}

func TestInstanceIdentifierMissing(t *testing.T) {
	ctx := testContext(t)
	_, err := ParseXML(ctx, parseDoc(t,
		listDoc+`<inst xmlns="urn:m1" xmlns:p="urn:m1">/p:l[p:name='q']/p:value</inst>`), 0)
	require.Error(t, err)
	require.Equal(t, KindReference, KindOf(err))

	tree := mustParse(t, ctx,
		listDoc+`<optinst xmlns="urn:m1" xmlns:p="urn:m1">/p:l[p:name='q']/p:value</optinst>`, 0)
	defer FreeSiblings(tree)
	opt := findNode(tree, "optinst")
	require.False(t, opt.Unres)
	require.Nil(t, opt.Value.Instance)
}

func TestInstanceIdentifierPosition(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx,
		listDoc+`<inst xmlns="urn:m1" xmlns:p="urn:m1">/p:l[2]/p:name</inst>`, 0)
	defer FreeSiblings(tree)

	inst := findNode(tree, "inst")
	require.NotNil(t, inst.Value.Instance)
	require.Equal(t, "b", inst.Value.Instance.ValueStr)
}

func TestResolveReferencesBuiltTree(t *testing.T) {
	ctx := testContext(t)
	m1 := ctx.ModuleByName("m1")

	l1, err := New(nil, m1, "l")
	require.NoError(t, err)
	_, err = NewLeaf(l1, m1, "name", "a")
	require.NoError(t, err)

	ref, err := NewLeaf(nil, m1, "ref", "a")
	require.NoError(t, err)
	require.True(t, ref.Unres)
	require.NoError(t, InsertAfter(l1, ref))

	require.NoError(t, ResolveReferences(l1))
	require.False(t, ref.Unres)
	require.NotNil(t, ref.Value.Leafref)
	require.Equal(t, "a", ref.Value.Leafref.ValueStr)

	FreeSiblings(l1)
}
