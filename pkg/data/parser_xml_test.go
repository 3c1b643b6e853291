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

func TestParseContainer(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, `<foo xmlns="urn:m1"><bar>hi</bar><baz xmlns="urn:m2">zz</baz></foo>`, 0)
	defer FreeSiblings(tree)

	require.Equal(t, "foo", tree.Schema.Name)
	require.NotNil(t, tree.Child)
	bar := tree.Child
	require.Equal(t, "bar", bar.Schema.Name)
	require.Equal(t, "hi", bar.ValueStr)
	require.Equal(t, schema.Ystring, bar.ValueType)
	baz := bar.Next
	require.NotNil(t, baz)
	require.Equal(t, "baz", baz.Schema.Name)
	require.Equal(t, "m2", baz.Schema.Module.Name)
	require.Equal(t, tree, baz.Parent)
}

func TestParseChoiceDescent(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, `<ca xmlns="urn:m1">inside</ca>`, 0)
	defer FreeSiblings(tree)
	require.Equal(t, "ca", tree.Schema.Name)
	require.Equal(t, "inside", tree.ValueStr)

	tree2 := mustParse(t, ctx, `<cb xmlns="urn:m1">direct</cb>`, 0)
	defer FreeSiblings(tree2)
	require.Equal(t, "cb", tree2.Schema.Name)
}

func TestParseGroupingNotInstantiable(t *testing.T) {
	ctx := testContext(t)
	// gl exists only inside a grouping, so the element is unknown; the
	// namespace is owned by m1 which makes this an error even in lax
	// mode.
	_, err := ParseXML(ctx, parseDoc(t, `<gl xmlns="urn:m1">x</gl>`), 0)
	require.Error(t, err)
	require.Equal(t, KindSchemaBinding, KindOf(err))
}

func TestParseMissingNamespace(t *testing.T) {
	ctx := testContext(t)
	_, err := ParseXML(ctx, parseDoc(t, `<foo><bar>hi</bar></foo>`), 0)
	require.Error(t, err)
	require.Equal(t, KindStructural, KindOf(err))
}

func TestParseLaxUnknownNamespace(t *testing.T) {
	ctx := testContext(t)
	tree, err := ParseXML(ctx, parseDoc(t, `<z xmlns="urn:zzz"><huh/></z>`), 0)
	require.NoError(t, err)
	require.Nil(t, tree)
}

func TestParseStrictUnknownNamespace(t *testing.T) {
	ctx := testContext(t)
	tree, err := ParseXML(ctx, parseDoc(t, `<z xmlns="urn:zzz"><huh/></z>`), Strict)
	require.Error(t, err)
	require.Nil(t, tree)
	require.Equal(t, KindSchemaBinding, KindOf(err))
}

func TestParseLaxSkipsUnknownSibling(t *testing.T) {
	ctx := testContext(t)
	// The unknown-namespace sibling is dropped, the known one is kept.
	tree := mustParse(t, ctx,
		`<z xmlns="urn:zzz"/><s xmlns="urn:m1">ab</s>`, 0)
	defer FreeSiblings(tree)
	if tree.Schema.Name != "s" || tree.Next != nil {
		t.Errorf("got tree rooted at %s, want single tree s", tree.Schema.Name)
	}
}

func TestParseAnyxml(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, `<any xmlns="urn:m1"><b x="1"/><c/></any>`, 0)
	defer FreeSiblings(tree)

	require.Equal(t, "any", tree.Schema.Name)
	require.Nil(t, tree.Child)
	out := ""
	for _, x := range tree.XML {
		out += x.OutputXML(true)
	}
	require.Equal(t, `<b x="1"></b><c></c>`, out)
}

func TestParseUserOrderedInsertBefore(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx,
		`<x xmlns="urn:m1">a</x>`+
			`<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="before" yang:value="a">b</x>`,
		Edit)
	defer FreeSiblings(tree)

	var got []string
	for n := tree; n != nil; n = n.Next {
		got = append(got, n.ValueStr)
	}
	require.Equal(t, []string{"b", "a"}, got)
}

func TestParseUserOrderedInsertFirstLast(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx,
		`<x xmlns="urn:m1">a</x>`+
			`<x xmlns="urn:m1">b</x>`+
			`<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="first">c</x>`+
			`<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="last">d</x>`,
		Edit)
	defer FreeSiblings(tree)

	var got []string
	for n := tree; n != nil; n = n.Next {
		got = append(got, n.ValueStr)
	}
	require.Equal(t, []string{"c", "a", "b", "d"}, got)
}

func TestParseEditAttrGrammar(t *testing.T) {
	ctx := testContext(t)
	for _, tt := range []struct {
		desc string
		in   string
		kind ErrorKind
	}{
		{
			desc: "insert on non-user-ordered leaf",
			in:   `<s xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="first">ab</s>`,
			kind: KindSchemaBinding,
		},
		{
			desc: "bad insert argument",
			in:   `<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="middle">a</x>`,
			kind: KindStructural,
		},
		{
			desc: "value without before/after",
			in:   `<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="first" yang:value="q">a</x>`,
			kind: KindStructural,
		},
		{
			desc: "missing value for before",
			in:   `<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="before">a</x>`,
			kind: KindStructural,
		},
		{
			desc: "missing insert target",
			in:   `<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="after" yang:value="zz">a</x>`,
			kind: KindSemantic,
		},
	} {
		_, err := ParseXML(ctx, parseDoc(t, tt.in), Edit)
		require.Error(t, err, tt.desc)
		require.Equal(t, tt.kind, KindOf(err), tt.desc)
	}
}

func TestParseEditAttrsIgnoredWithoutEditOption(t *testing.T) {
	ctx := testContext(t)
	// Without the Edit option the insert attributes are ordinary
	// attributes from an unknown module and are skipped; order stays
	// document order.
	tree := mustParse(t, ctx,
		`<x xmlns="urn:m1">a</x>`+
			`<x xmlns="urn:m1" xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:insert="before" yang:value="a">b</x>`,
		0)
	defer FreeSiblings(tree)
	var got []string
	for n := tree; n != nil; n = n.Next {
		got = append(got, n.ValueStr)
	}
	require.Equal(t, []string{"a", "b"}, got)
}

func TestParseAttrs(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx,
		`<foo xmlns="urn:m1" xmlns:p="urn:m2" p:note="yes" bare="skipped"><bar>hi</bar></foo>`, 0)
	defer FreeSiblings(tree)

	require.Len(t, tree.Attr, 1)
	a := tree.Attr[0]
	require.Equal(t, "note", a.Name)
	require.Equal(t, "yes", a.Value)
	require.Equal(t, "m2", a.Module.Name)
}

func TestParseRPCOutput(t *testing.T) {
	ctx := testContext(t)
	rpc := ctx.ModuleByName("m1").Data
	for rpc != nil && rpc.Name != "do" {
		rpc = rpc.Next
	}
	require.NotNil(t, rpc)

	tree, err := ParseRPCOutputXML(rpc, parseDoc(t, `<out xmlns="urn:m1">done</out>`), 0)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer FreeSiblings(tree)
	require.Equal(t, "out", tree.Schema.Name)
	require.Equal(t, "done", tree.ValueStr)
}

func TestParseFilterDiscard(t *testing.T) {
	ctx := testContext(t)
	v := pruneEmptyContainers{}
	tree, err := ParseXML(ctx, parseDoc(t, `<foo xmlns="urn:m1"/>`), Filter, WithValidator(v))
	require.NoError(t, err)
	require.Nil(t, tree)
}

func TestParseContentHookHardFailure(t *testing.T) {
	ctx := testContext(t)
	v := failContainers{}
	_, err := ParseXML(ctx, parseDoc(t, `<foo xmlns="urn:m1"><bar>hi</bar></foo>`), 0, WithValidator(v))
	require.Error(t, err)
	require.Equal(t, KindSemantic, KindOf(err))
}

// pruneEmptyContainers silently discards containers without children, the
// way a filter validator prunes.
type pruneEmptyContainers struct{ NopValidator }

func (pruneEmptyContainers) DataContent(n *Node, opts Options, line int) error {
	if n.Schema.Kind == schema.Container && n.Child == nil {
		return ErrDiscard
	}
	return nil
}

// failContainers rejects every container with a hard semantic error.
type failContainers struct{ NopValidator }

func (failContainers) DataContent(n *Node, opts Options, line int) error {
	if n.Schema.Kind == schema.Container {
		return newError(KindSemantic, line, "container %s rejected", n.Schema.Name)
	}
	return nil
}

func TestParseEmptyDocument(t *testing.T) {
	ctx := testContext(t)
	// A document without a single element names no data model at all,
	// which is an error; this is distinct from the lax skip of elements
	// in an unknown namespace.
	tree, err := ParseXML(ctx, parseDoc(t, `<!-- no elements -->`), 0)
	require.Error(t, err)
	require.Nil(t, tree)
	require.Equal(t, KindSchemaBinding, KindOf(err))
	require.Contains(t, err.Error(), "no data model found")
}

func TestParseDestruct(t *testing.T) {
	ctx := testContext(t)
	doc := parseDoc(t, `<foo xmlns="urn:m1"><bar>hi</bar></foo>`)
	tree, err := ParseXML(ctx, doc, Destruct)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer FreeSiblings(tree)
	// The consumed elements were freed from the input tree.
	require.Nil(t, doc.FirstChild)
}

func TestParseDictBalanced(t *testing.T) {
	ctx := testContext(t)
	baseline := ctx.Dict.Len()
	tree := mustParse(t, ctx,
		`<foo xmlns="urn:m1" xmlns:p="urn:m2" p:note="yes"><bar>hi</bar></foo>`+
			`<idr xmlns="urn:m1" xmlns:p="urn:m2">p:id1</idr>`+
			`<x xmlns="urn:m1">one</x>`, 0)
	FreeSiblings(tree)
	require.Equal(t, baseline, ctx.Dict.Len())
}
