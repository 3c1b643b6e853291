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
		name: "json",
		f:    doJSON,
		help: "display as JSON per draft-ietf-netmod-yang-json",
	})
}

func doJSON(w io.Writer, root *data.Node) error {
	return data.PrintJSON(w, root)
}
