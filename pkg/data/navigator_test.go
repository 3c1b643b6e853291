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
)

func TestFind(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, listDoc+`<foo xmlns="urn:m1"><bar>hi</bar></foo>`, 0)
	defer FreeSiblings(tree)

	for _, tt := range []struct {
		expr string
		want []string // expected ValueStr of each result
	}{
		{expr: "/m1:l/m1:name", want: []string{"a", "b"}},
		{expr: "/m1:l[m1:name='b']/m1:value", want: []string{"2"}},
		{expr: "/m1:foo/m1:bar", want: []string{"hi"}},
		{expr: "/m1:nosuch", want: nil},
	} {
		set, err := Find(tree, tt.expr)
		require.NoError(t, err, tt.expr)
		var got []string
		for _, n := range set.Nodes {
			got = append(got, n.ValueStr)
		}
		require.Equal(t, tt.want, got, tt.expr)
	}
}

func TestFindBadExpression(t *testing.T) {
	ctx := testContext(t)
	tree := mustParse(t, ctx, listDoc, 0)
	defer FreeSiblings(tree)

	_, err := Find(tree, "/m1:l[")
	require.Error(t, err)
}
