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


// Package fuzzy implements approximate text matching on top of
// Levenshtein edit distance.
//
// The building blocks are small and composable:
//   - Distance and Similarity compare two strings.
//   - Tokenize and MatchTerm compare a query term against a document's terms.
//   - Match scores a whole query against a whole text, Search ranks a
//     collection of items by their best field score, and Suggestions
//     proposes corrected terms from a vocabulary when nothing matched.
//
// All functions are pure and safe for concurrent use.
package fuzzy
