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

package main

import (
	"io"

	"github.com/openconfig/yangdata/pkg/data"
)

func init() {
	register(&formatter{
		name: "xml",
		f:    doXML,
		help: "display as formatted XML",
	})
	register(&formatter{
		name: "cxml",
		f:    doCompactXML,
		help: "display as compact single-line XML",
	})
}

func doXML(w io.Writer, root *data.Node) error {
	return data.PrintXML(w, root, true)
}

func doCompactXML(w io.Writer, root *data.Node) error {
	if err := data.PrintXML(w, root, false); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
