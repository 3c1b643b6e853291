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
	"fmt"
	"io"

	"github.com/openconfig/yangdata/pkg/indent"
	"github.com/openconfig/yangdata/pkg/schema"
)

// PrintTree writes a human readable dump of the tree rooted at root and
// its following siblings to w.  The output is for debugging, not for
// interchange.
func PrintTree(w io.Writer, root *Node) {
	for n := root; n != nil; n = n.Next {
		printTreeNode(w, n)
	}
}

func printTreeNode(w io.Writer, n *Node) {
	name := n.Schema.Module.MainModule().Name + ":" + n.Schema.Name
	switch {
	case n.Schema.IsLeafy():
		fmt.Fprintf(w, "%s %s = %q (%s)", n.Schema.Kind, name, n.ValueStr, n.ValueType)
		if n.Unres {
			fmt.Fprintf(w, " unresolved")
		}
		fmt.Fprintln(w)
	case n.Schema.Kind == schema.AnyXML:
		fmt.Fprintf(w, "%s %s\n", n.Schema.Kind, name)
	default:
		fmt.Fprintf(w, "%s %s {\n", n.Schema.Kind, name)
		iw := indent.NewWriter(w, "  ")
		for c := n.Child; c != nil; c = c.Next {
			printTreeNode(iw, c)
		}
		fmt.Fprintln(w, "}")
	}
}
