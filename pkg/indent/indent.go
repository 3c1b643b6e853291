// Copyright 2015 Google Inc.
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

// Package indent indents lines of text with a prefix.
package indent

import (
	"bytes"
	"io"
)

// String returns s with each line in s prefixed by indent.
func String(indent, s string) string {
	if indent == "" || s == "" {
		return s
	}
	return string(Bytes([]byte(indent), []byte(s)))
}

// Bytes returns b with each line in b prefixed by indent.
func Bytes(indent, b []byte) []byte {
	if len(indent) == 0 || len(b) == 0 {
		return b
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, string(indent))
	w.Write(b)
	return buf.Bytes()
}

// NewWriter returns an io.Writer that prefixes the lines written to it with
// indent and then writes them to w.  The writer returns the number of bytes
// of its input that were written, not counting the added prefixes.
func NewWriter(w io.Writer, indent string) io.Writer {
	if indent == "" {
		return w
	}
	return &indenter{
		w:      w,
		prefix: []byte(indent),
		bol:    true,
	}
}

type indenter struct {
	w      io.Writer
	prefix []byte
	bol    bool // at beginning of line
}

func (in *indenter) Write(buf []byte) (int, error) {
	var total int
	for len(buf) > 0 {
		if in.bol {
			if _, err := in.w.Write(in.prefix); err != nil {
				return total, err
			}
			in.bol = false
		}
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			n, err := in.w.Write(buf)
			return total + n, err
		}
		n, err := in.w.Write(buf[:i+1])
		total += n
		if err != nil {
			return total, err
		}
		in.bol = true
		buf = buf[i+1:]
	}
	return total, nil
}
