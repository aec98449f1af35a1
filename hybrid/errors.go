// Copyright 2025 Outfield Systems
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

package hybrid

import "errors"

var (
	// ErrRecordSourceRequired is returned when a record source is not provided.
	ErrRecordSourceRequired = errors.New("record source required")

	// ErrLexicalRequired is returned when a lexical searcher is not provided.
	ErrLexicalRequired = errors.New("lexical searcher required")

	// ErrVectorSourceRequired is returned when a vector source is not provided.
	ErrVectorSourceRequired = errors.New("vector source required")

	// ErrUnknownStrategy is returned for a merge strategy the merger does
	// not implement.
	ErrUnknownStrategy = errors.New("unknown merge strategy")
)
