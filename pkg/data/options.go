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

// Options control how a document is parsed.
type Options uint32

const (
	// Strict rejects unknown elements in a known namespace instead of
	// silently skipping them.
	Strict = Options(1 << iota)
	// Destruct frees each consumed XML child element as it is processed.
	Destruct
	// Filter parses with filter semantics: values may be absent,
	// leafrefs and instance-identifiers are not resolved, and validators
	// may prune empty nodes.
	Filter
	// Edit parses with edit semantics: the insert and value attributes
	// are recognized and value resolution is skipped.
	Edit
	// Get parses a get reply: references stay unresolved, structure is
	// retained.
	Get
	// GetConfig parses a get-config reply, as Get.
	GetConfig
)

// unresolved reports whether the options disable leafref and
// instance-identifier resolution.
func (o Options) unresolved() bool {
	return o&(Filter|Edit|Get|GetConfig) != 0
}

// A ParseOption adjusts a single parse invocation.
type ParseOption func(*parser)

// WithValidator installs v as the validation hooks of this parse.
func WithValidator(v Validator) ParseOption {
	return func(p *parser) { p.validator = v }
}
