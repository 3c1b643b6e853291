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
	"os"

	"github.com/rs/zerolog"
)

// logger emits the non-fatal diagnostics of the parsers and printers:
// ignored attributes, lax-mode skips of unknown elements.  Errors are
// returned, never logged.
var logger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

// SetLogger replaces the package logger.  Pass zerolog.Nop() to silence
// warnings entirely.
func SetLogger(l zerolog.Logger) { logger = l }
