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
	"errors"
	"fmt"
)

// An ErrorKind classifies a parse or print failure.
type ErrorKind int

const (
	// KindStructural is a malformed input document, e.g. a missing
	// element namespace.
	KindStructural = ErrorKind(iota + 1)
	// KindSchemaBinding is an element that matches no schema node or sits
	// in an illegal position.
	KindSchemaBinding
	// KindType is a value that fails its base type constraints.
	KindType
	// KindReference is a leafref or instance-identifier whose required
	// target does not exist.
	KindReference
	// KindSemantic is a violated semantic constraint (mandatory, unique,
	// when/must), reported by a validator.
	KindSemantic
	// KindInternal is an invariant violation inside the library.
	KindInternal
)

var kindNames = map[ErrorKind]string{
	KindStructural:    "structural",
	KindSchemaBinding: "schema-binding",
	KindType:          "type",
	KindReference:     "reference",
	KindSemantic:      "semantic",
	KindInternal:      "internal",
}

func (k ErrorKind) String() string {
	if s := kindNames[k]; s != "" {
		return s
	}
	return fmt.Sprintf("error-kind-%d", k)
}

// An Error is a failure produced while parsing or printing a data tree.
type Error struct {
	Kind ErrorKind
	Line int // source line of the offending element, 0 if unknown
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind carried by err, or 0 if err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ErrDiscard is returned by a Validator's DataContent hook to request that
// the freshly built node be silently dropped instead of failing the parse.
// Filter pruning uses this.
var ErrDiscard = errors.New("discard node")
