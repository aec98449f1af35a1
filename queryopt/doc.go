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


// Package queryopt analyzes and rewrites search queries.
//
// An Optimizer holds read-only correction tables (typos, abbreviations,
// synonyms, proper nouns) injected at construction. It can classify a
// raw query (Analyze), rewrite it through a fixed pipeline of techniques
// (Optimize), emit alternative phrasings for retry loops (Variations)
// and estimate how likely a query is to search well (QualityScore).
//
// Optimizers are immutable after construction and safe for concurrent
// use.
package queryopt
