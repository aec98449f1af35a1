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

// Package hybrid merges lexical and vector search results.
//
// The Merger type runs the lexical pipeline and a vector similarity
// source concurrently, then folds their result sets together using one
// of three strategies:
//   - weighted: a weighted average of the two scores
//   - rank_fusion: reciprocal rank fusion over the two rankings
//   - best_of_both: the union of each engine's top half, best score wins
//
// A failing or slow vector source degrades the response to lexical-only
// results instead of failing the request. An optional LRU cache serves
// repeated queries without re-running either engine.
package hybrid
