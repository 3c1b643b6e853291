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

// Program yangdata parses XML instance documents against a schema
// description, displays errors, and writes the data tree on output.
//
// Usage: yangdata --schema SCHEMA.yaml [--format FORMAT] [--strict] [FILE ...]
//
// SCHEMA.yaml is a schema description produced by an external YANG
// compiler.  Each FILE is an XML instance document; with no FILEs standard
// input is parsed.
//
// FORMAT, which defaults to "xml", specifies the format of output to
// produce:
//
//	xml   formatted XML
//	json  JSON per draft-ietf-netmod-yang-json
//	tree  a debugging dump of the data tree
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/antchfx/xmlquery"
	"github.com/pborman/getopt"

	"github.com/openconfig/yangdata/pkg/data"
	"github.com/openconfig/yangdata/pkg/schema"
)

type formatter struct {
	name string
	f    func(io.Writer, *data.Node) error
	help string
}

var formatters = map[string]*formatter{}

func register(f *formatter) {
	formatters[f.name] = f
}

// exitIfError writes errs to standard error and exits with an exit status
// of 1.  If errs is empty then exitIfError does nothing and simply returns.
func exitIfError(errs []error) {
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func main() {
	var schemaFile string
	format := "xml"
	strict := false
	getopt.CommandLine.StringVarLong(&schemaFile, "schema", 0, "schema description to parse against")
	getopt.CommandLine.StringVarLong(&format, "format", 0, "format to display: "+formatList())
	getopt.CommandLine.BoolVarLong(&strict, "strict", 0, "reject unknown elements in known namespaces")

	getopt.Parse()
	files := getopt.Args()

	fmtr := formatters[format]
	if fmtr == nil {
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", format)
		os.Exit(1)
	}
	if schemaFile == "" {
		fmt.Fprintln(os.Stderr, "yangdata: --schema is required")
		os.Exit(1)
	}

	ctx := schema.NewContext()
	sf, err := os.Open(schemaFile)
	if err != nil {
		exitIfError([]error{err})
	}
	err = schema.LoadYAML(ctx, sf)
	sf.Close()
	if err != nil {
		exitIfError([]error{err})
	}

	opts := data.Options(0)
	if strict {
		opts |= data.Strict
	}

	var errs []error
	parse := func(r io.Reader, name string) {
		doc, err := xmlquery.Parse(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", name, err))
			return
		}
		tree, err := data.ParseXML(ctx, doc, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", name, err))
			return
		}
		if tree == nil {
			return
		}
		if err := fmtr.f(os.Stdout, tree); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", name, err))
		}
		data.FreeSiblings(tree)
	}

	if len(files) == 0 {
		parse(os.Stdin, "<STDIN>")
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parse(f, name)
		f.Close()
	}
	exitIfError(errs)
}

func formatList() string {
	var names []string
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	s := ""
	for i, name := range names {
		if i > 0 {
			s += ", "
		}
		s += name
	}
	return s
}
